// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package set

// Set tracks a collection of unique items.
type Set[T comparable] struct {
	contents map[T]struct{}
}

func NewSet[T comparable]() *Set[T] {
	return &Set[T]{contents: map[T]struct{}{}}
}

// NewSetFromItems returns a set populated with the specified items,
// deduplicated.
func NewSetFromItems[T comparable](items ...T) *Set[T] {
	set := NewSet[T]()
	for _, item := range items {
		set.Add(item)
	}
	return set
}

// Contents returns the items in the set. The order is not stable across
// calls.
func (s *Set[T]) Contents() []T {
	items := make([]T, 0, len(s.contents))
	for item := range s.contents {
		items = append(items, item)
	}
	return items
}

func (s *Set[T]) Add(item T) {
	s.contents[item] = struct{}{}
}

func (s *Set[T]) Remove(item T) {
	delete(s.contents, item)
}

func (s *Set[T]) Extend(set *Set[T]) {
	for item := range set.contents {
		s.Add(item)
	}
}

func (s *Set[T]) Has(item T) bool {
	_, has := s.contents[item]
	return has
}

func (s *Set[T]) Len() int {
	return len(s.contents)
}

// Intersection returns a new set with the items present in both s and set.
func (s *Set[T]) Intersection(set *Set[T]) *Set[T] {
	intersection := NewSet[T]()

	rangeOver := s
	other := set
	if set.Len() < s.Len() {
		rangeOver = set
		other = s
	}

	for item := range rangeOver.contents {
		if other.Has(item) {
			intersection.Add(item)
		}
	}

	return intersection
}

// Minus returns a new set with the items present in s but not in set.
func (s *Set[T]) Minus(set *Set[T]) *Set[T] {
	difference := NewSet[T]()
	for item := range s.contents {
		if !set.Has(item) {
			difference.Add(item)
		}
	}
	return difference
}
