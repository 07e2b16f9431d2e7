package crdt

import (
	"github.com/google/uuid"
)

var constructors = map[string]CRDTConstructor{
	AWSetName: func(id uuid.UUID) (CRDT, error) {
		if id == uuid.Nil {
			return nil, ErrInvalidReplicaID
		}
		s, err := NewAWSet[string](id.String())
		if err != nil {
			return nil, err
		}
		return s, nil
	},
}

var deltas = map[string]func() Delta{
	AWSetName: func() Delta {
		return &AWSetDelta[string]{}
	},
}

type fabric struct {
}

func NewFabric() CRDTFabric {
	return &fabric{}
}

func (f *fabric) New(name string, id uuid.UUID) (CRDT, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, ErrCRDTNotFound
	}
	return constructor(id)
}

// NewDelta returns an empty delta of the named type, ready for decoding.
func (f *fabric) NewDelta(name string) (Delta, error) {
	constructor, ok := deltas[name]
	if !ok {
		return nil, ErrCRDTNotFound
	}
	return constructor(), nil
}
