package structs

import (
	"iter"
	"slices"

	"golang.org/x/exp/constraints"
)

type empty = struct{}

// Set — простое множество для значений типа T, без репликации
type Set[T comparable] map[T]empty

// NewSet создаёт множество из переданных значений
func NewSet[T comparable](values ...T) Set[T] {
	res := make(Set[T], len(values))
	for _, v := range values {
		res[v] = empty{}
	}
	return res
}

// Add добавляет элемент в множество
func (s Set[T]) Add(value T) {
	s[value] = empty{}
}

// Contains проверяет наличие элемента
func (s Set[T]) Contains(value T) bool {
	_, exists := s[value]
	return exists
}

// Slice возвращает все элементы множества, порядок не определён
func (s Set[T]) Slice() []T {
	values := make([]T, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	return values
}

func (s Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

// Clone создаёт копию множества
func (s Set[T]) Clone() Set[T] {
	clone := make(Set[T], len(s))
	for v := range s {
		clone[v] = empty{}
	}
	return clone
}

// Union возвращает новое множество из элементов s и other
func (s Set[T]) Union(other Set[T]) Set[T] {
	result := s.Clone()
	for v := range other {
		result[v] = empty{}
	}
	return result
}

// SortedSlice возвращает элементы по возрастанию
func SortedSlice[T constraints.Ordered](s Set[T]) []T {
	values := s.Slice()
	slices.Sort(values)
	return values
}
