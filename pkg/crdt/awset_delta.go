package crdt

import (
	"encoding/json"
	"fmt"
)

// AWSetDelta carries the vectors of a single element after a local write.
type AWSetDelta[E comparable] struct {
	Element E
	Added   VersionVector
	Removed VersionVector
}

type awsetDeltaWire[E comparable] struct {
	Type    string        `json:"type"`
	Element E             `json:"element"`
	Added   VersionVector `json:"added,omitempty"`
	Removed VersionVector `json:"removed,omitempty"`
}

func (d *AWSetDelta[E]) MarshalJSON() ([]byte, error) {
	return json.Marshal(awsetDeltaWire[E]{
		Type:    AWSetName,
		Element: d.Element,
		Added:   d.Added,
		Removed: d.Removed,
	})
}

func (d *AWSetDelta[E]) UnmarshalJSON(data []byte) error {
	var aux awsetDeltaWire[E]
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Type != "" && aux.Type != AWSetName {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidDeltaType, AWSetName, aux.Type)
	}
	d.Element = aux.Element
	d.Added = aux.Added
	d.Removed = aux.Removed
	return nil
}

func (d *AWSetDelta[E]) Type() string {
	return AWSetName
}
