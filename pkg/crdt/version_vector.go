package crdt

import (
	"fmt"
	"sort"
	"strings"
)

// Ordering is the result of comparing two version vectors.
type Ordering int

const (
	Equal Ordering = iota
	Less
	Greater
	Concurrent
)

func (o Ordering) String() string {
	switch o {
	case Equal:
		return "Equal"
	case Less:
		return "Less"
	case Greater:
		return "Greater"
	case Concurrent:
		return "Concurrent"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// VersionVector maps a replica ID to the number of operations observed from it.
// Missing entries read as 0. Methods never modify the receiver.
type VersionVector map[string]uint64

func NewVersionVector() VersionVector {
	return make(VersionVector)
}

// Get returns the counter for id, 0 when absent.
func (v VersionVector) Get(id string) uint64 {
	return v[id]
}

func (v VersionVector) Clone() VersionVector {
	res := make(VersionVector, len(v))
	for id, c := range v {
		res[id] = c
	}
	return res
}

// Increment returns a copy of v with the counter of id raised by one.
func (v VersionVector) Increment(id string) VersionVector {
	res := v.Clone()
	res[id]++
	return res
}

// Merge returns the pointwise maximum of v and other.
func (v VersionVector) Merge(other VersionVector) VersionVector {
	res := v.Clone()
	for id, c := range other {
		if c > res[id] {
			res[id] = c
		}
	}
	return res
}

// Compare reports how v relates to other in the causal partial order.
func (v VersionVector) Compare(other VersionVector) Ordering {
	less, greater := false, false

	for id, c := range v {
		oc := other[id]
		if c < oc {
			less = true
		} else if c > oc {
			greater = true
		}
	}
	for id, oc := range other {
		if _, ok := v[id]; ok {
			continue
		}
		// v reads 0 here
		if oc > 0 {
			less = true
		}
	}

	switch {
	case less && greater:
		return Concurrent
	case less:
		return Less
	case greater:
		return Greater
	default:
		return Equal
	}
}

// String renders the vector with replica IDs sorted, e.g. {a:1, b:3}.
func (v VersionVector) String() string {
	ids := make([]string, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%d", id, v[id])
	}
	b.WriteByte('}')
	return b.String()
}
