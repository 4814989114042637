package actions

import (
	"cmp"
	"slices"
)

// Set is an unordered collection of ids. With returns a new set, so a
// state holding a Set can be copied without aliasing.
type Set[T cmp.Ordered] map[T]struct{}

// NewSet builds a set from items.
func NewSet[T cmp.Ordered](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// With returns a copy of s that also contains items.
func (s Set[T]) With(items ...T) Set[T] {
	out := make(Set[T], len(s)+len(items))
	for it := range s {
		out[it] = struct{}{}
	}
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}

// Contains reports whether item is in s.
func (s Set[T]) Contains(item T) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the items in ascending order.
func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	slices.Sort(out)
	return out
}
