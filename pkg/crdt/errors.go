package crdt

import "fmt"

var ErrInvalidDeltaType = fmt.Errorf("invalid delta type")
var ErrCRDTTypeMismatch = fmt.Errorf("CRDT type mismatch")
var ErrDeltaTypeMismatch = fmt.Errorf("delta type mismatch")
var ErrCRDTNotFound = fmt.Errorf("crdt not found")

// ErrInvalidReplicaID is returned when a replica is created without an identifier.
var ErrInvalidReplicaID = fmt.Errorf("invalid replica id")

// ErrConcurrentVector reports an addition and removal vector of one element
// that are concurrent where they must be ordered. It means the state was
// corrupted and is never a normal "absent" answer.
var ErrConcurrentVector = fmt.Errorf("concurrent addition and removal vectors")

func concurrentVectorError[E comparable](element E, added, removed VersionVector) error {
	return fmt.Errorf("%w: element %v: added %s, removed %s", ErrConcurrentVector, element, added, removed)
}
