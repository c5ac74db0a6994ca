// Package setutil provides set helpers for id collections.
package setutil

import "slices"

// UintSet is a set of uint ids.
type UintSet struct {
	items map[uint]struct{}
}

// NewUintSet creates an empty set, optionally seeded with ids.
func NewUintSet(ids ...uint) *UintSet {
	s := &UintSet{items: make(map[uint]struct{}, len(ids))}
	s.AddAll(ids)
	return s
}

// Add adds an id and reports whether it was newly inserted.
func (s *UintSet) Add(id uint) bool {
	if _, ok := s.items[id]; ok {
		return false
	}
	s.items[id] = struct{}{}
	return true
}

func (s *UintSet) AddAll(ids []uint) {
	for _, id := range ids {
		s.items[id] = struct{}{}
	}
}

// Union adds every element of other to s.
func (s *UintSet) Union(other *UintSet) {
	if other == nil {
		return
	}
	for id := range other.items {
		s.items[id] = struct{}{}
	}
}

func (s *UintSet) Has(id uint) bool {
	_, ok := s.items[id]
	return ok
}

func (s *UintSet) Len() int {
	return len(s.items)
}

// Sorted returns the ids in ascending order.
func (s *UintSet) Sorted() []uint {
	out := make([]uint, 0, len(s.items))
	for id := range s.items {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
