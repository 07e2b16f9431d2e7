package structs

import (
	"slices"
	"testing"
)

func TestSet_Union(t *testing.T) {
	a := NewSet("x", "y")
	b := NewSet("y", "z")

	u := a.Union(b)

	if got := SortedSlice(u); !slices.Equal(got, []string{"x", "y", "z"}) {
		t.Fatalf("Union = %v", got)
	}
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("Union modified its operands")
	}
}

func TestSet_AllStopsEarly(t *testing.T) {
	s := NewSet(1, 2, 3, 4)

	n := 0
	for range s.All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iterated %d values", n)
	}
}

func TestSet_Contains(t *testing.T) {
	s := NewSet[string]()
	s.Add("x")

	if !s.Contains("x") || s.Contains("y") {
		t.Fatalf("Contains mismatch: %v", s.Slice())
	}
	c := s.Clone()
	c.Add("y")
	if s.Contains("y") {
		t.Fatalf("Clone shares storage")
	}
}
