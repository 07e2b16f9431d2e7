package crdt

import (
	"encoding/json"
	"fmt"
	"strings"

	"replicaset/pkg/structs"

	"golang.org/x/exp/constraints"
)

const AWSetName = "AWSet"

// AWSet is an add-wins replicated set owned by a single replica.
//
// Every element carries the join of all addition vectors and the join of all
// removal vectors the replica knows about. Membership is derived from the pair:
// the element is absent only when the removal causally follows every addition.
// An addition concurrent with a removal keeps the element.
//
// AWSet is not safe for concurrent use; callers serialize access.
type AWSet[E comparable] struct {
	id        string
	additions map[E]VersionVector
	removals  map[E]VersionVector
}

func NewAWSet[E comparable](replicaID string) (*AWSet[E], error) {
	if strings.TrimSpace(replicaID) == "" {
		return nil, ErrInvalidReplicaID
	}
	return &AWSet[E]{
		id:        replicaID,
		additions: make(map[E]VersionVector),
		removals:  make(map[E]VersionVector),
	}, nil
}

func NewAWSetFromSnapshot[E comparable](snapshot []byte) (*AWSet[E], error) {
	s := &AWSet[E]{}
	if err := s.UnmarshalJSON(snapshot); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AWSet[E]) ID() string {
	return s.id
}

func (s *AWSet[E]) Type() string {
	return AWSetName
}

// Add stamps element with a new addition vector and returns the change.
func (s *AWSet[E]) Add(element E) *AWSetDelta[E] {
	s.additions[element] = s.effective(element).Increment(s.id)
	return s.delta(element)
}

// Remove stamps element with a new removal vector and returns the change.
// Removing an unknown element still records the removal.
func (s *AWSet[E]) Remove(element E) *AWSetDelta[E] {
	s.removals[element] = s.effective(element).Increment(s.id)
	return s.delta(element)
}

func (s *AWSet[E]) Has(element E) bool {
	added, ok := s.additions[element]
	if !ok {
		return false
	}
	return present(added, s.removals[element])
}

// Elements returns the members of the set in no particular order.
func (s *AWSet[E]) Elements() []E {
	res := make([]E, 0, len(s.additions))
	for element, added := range s.additions {
		if present(added, s.removals[element]) {
			res = append(res, element)
		}
	}
	return res
}

func (s *AWSet[E]) Len() int {
	n := 0
	for element, added := range s.additions {
		if present(added, s.removals[element]) {
			n++
		}
	}
	return n
}

// SortedElements returns the members of s in ascending order.
func SortedElements[E constraints.Ordered](s *AWSet[E]) []E {
	return structs.SortedSlice(structs.NewSet(s.Elements()...))
}

// Vectors returns copies of the addition and removal vectors of element;
// a nil vector means the replica never saw that kind of operation.
func (s *AWSet[E]) Vectors(element E) (added, removed VersionVector) {
	return cloneVector(s.additions[element]), cloneVector(s.removals[element])
}

func (s *AWSet[E]) Clone() *AWSet[E] {
	c := &AWSet[E]{
		id:        s.id,
		additions: make(map[E]VersionVector, len(s.additions)),
		removals:  make(map[E]VersionVector, len(s.removals)),
	}
	for element, v := range s.additions {
		c.additions[element] = v.Clone()
	}
	for element, v := range s.removals {
		c.removals[element] = v.Clone()
	}
	return c
}

// Merge folds the full state of another replica into s.
func (s *AWSet[E]) Merge(other CRDT) error {
	o, ok := other.(*AWSet[E])
	if !ok {
		return fmt.Errorf("%w: cannot merge %T with %T", ErrCRDTTypeMismatch, s, other)
	}
	s.MergeSet(o)
	return nil
}

// MergeSet replaces the state of s with the least upper bound of s and other.
// other is never modified and shares no memory with s afterwards.
func (s *AWSet[E]) MergeSet(other *AWSet[E]) {
	elements := s.known().Union(other.known())

	additions := make(map[E]VersionVector, len(elements))
	removals := make(map[E]VersionVector, len(elements))

	for element := range elements.All() {
		added, removed := mergeElement(
			s.additions[element], s.removals[element],
			other.additions[element], other.removals[element],
		)
		if added != nil {
			additions[element] = added
		}
		if removed != nil {
			removals[element] = removed
		}
	}

	s.additions = additions
	s.removals = removals
}

func (s *AWSet[E]) MergeSnapshot(snapshot []byte) error {
	other, err := NewAWSetFromSnapshot[E](snapshot)
	if err != nil {
		return err
	}
	s.MergeSet(other)
	return nil
}

// ApplyDelta merges a single-element change produced by Add or Remove on
// another replica.
func (s *AWSet[E]) ApplyDelta(delta Delta) error {
	d, ok := delta.(*AWSetDelta[E])
	if !ok {
		return fmt.Errorf("%w: cannot apply delta type %T", ErrDeltaTypeMismatch, delta)
	}
	if d.Added == nil && d.Removed == nil {
		return fmt.Errorf("%w: empty delta for element %v", ErrInvalidDeltaType, d.Element)
	}
	for _, v := range []VersionVector{d.Added, d.Removed} {
		if v != nil {
			if err := checkVector(d.Element, v); err != nil {
				return err
			}
		}
	}
	// a delta is one replica's state right after its own write, so the pair is ordered
	if d.Added != nil && d.Removed != nil && d.Added.Compare(d.Removed) == Concurrent {
		return concurrentVectorError(d.Element, d.Added, d.Removed)
	}

	added, removed := mergeElement(s.additions[d.Element], s.removals[d.Element], d.Added, d.Removed)
	if added != nil {
		s.additions[d.Element] = added
	}
	if removed != nil {
		s.removals[d.Element] = removed
	}
	return nil
}

// Snapshot returns the serialized state for transport to other replicas.
func (s *AWSet[E]) Snapshot() ([]byte, error) {
	return s.MarshalJSON()
}

type awsetEntry[E comparable] struct {
	Element E             `json:"element"`
	Vector  VersionVector `json:"vector"`
}

type awsetState[E comparable] struct {
	ID        string          `json:"id"`
	Additions []awsetEntry[E] `json:"additions"`
	Removals  []awsetEntry[E] `json:"removals"`
}

func (s *AWSet[E]) MarshalJSON() ([]byte, error) {
	data := awsetState[E]{
		ID:        s.id,
		Additions: entries(s.additions),
		Removals:  entries(s.removals),
	}
	return json.Marshal(data)
}

func (s *AWSet[E]) UnmarshalJSON(data []byte) error {
	var tmp awsetState[E]
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if strings.TrimSpace(tmp.ID) == "" {
		return ErrInvalidReplicaID
	}

	additions, err := vectors(tmp.Additions)
	if err != nil {
		return err
	}
	removals, err := vectors(tmp.Removals)
	if err != nil {
		return err
	}

	s.id = tmp.ID
	s.additions = additions
	s.removals = removals
	return nil
}

// effective is the newest vector known for element, the base for the next
// local write. Unknown elements start from the zero vector.
func (s *AWSet[E]) effective(element E) VersionVector {
	v := effectiveVector(s.additions[element], s.removals[element])
	if v == nil {
		return NewVersionVector()
	}
	return v
}

func (s *AWSet[E]) delta(element E) *AWSetDelta[E] {
	added, removed := s.Vectors(element)
	return &AWSetDelta[E]{Element: element, Added: added, Removed: removed}
}

// known returns every element with an addition or a removal.
func (s *AWSet[E]) known() structs.Set[E] {
	res := structs.NewSet[E]()
	for element := range s.additions {
		res.Add(element)
	}
	for element := range s.removals {
		res.Add(element)
	}
	return res
}

func entries[E comparable](m map[E]VersionVector) []awsetEntry[E] {
	res := make([]awsetEntry[E], 0, len(m))
	for element, v := range m {
		res = append(res, awsetEntry[E]{Element: element, Vector: v})
	}
	return res
}

func vectors[E comparable](list []awsetEntry[E]) (map[E]VersionVector, error) {
	res := make(map[E]VersionVector, len(list))
	for _, e := range list {
		if err := checkVector(e.Element, e.Vector); err != nil {
			return nil, err
		}
		v := e.Vector
		if prev, ok := res[e.Element]; ok {
			v = prev.Merge(v)
		}
		res[e.Element] = v
	}
	return res, nil
}

// checkVector rejects a vector no local write could have produced: every
// write names its replica and bumps its counter, so a recorded vector has a
// non-blank id and at least one positive entry.
func checkVector[E comparable](element E, v VersionVector) error {
	positive := false
	for id, n := range v {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: element %v: blank replica id in %s", ErrInvalidReplicaID, element, v)
		}
		if n > 0 {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("%w: element %v: zero vector %s cannot be ordered against any write", ErrConcurrentVector, element, v)
	}
	return nil
}
