// Package encodedset provides a set of entities whose membership is decided
// by canonical encoding rather than Go identity.
//
// Elements are stored as their encodings in a sorted, duplicate-free slice.
// Iteration yields decoded values in encoding order, not insertion order, so
// two sets that received the same values in any order hold identical bytes.
//
// A Set is not safe for concurrent use; callers guard it.
package encodedset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rmgdb/kineticdb/internal/model"
)

// Set is a sorted set of canonical encodings of T.
type Set[T model.Entity] struct {
	items [][]byte
}

// New returns an empty set.
func New[T model.Entity]() *Set[T] {
	return &Set[T]{}
}

// Add inserts v. It reports false, with no error, when an equal value is
// already present.
func (s *Set[T]) Add(v T) (bool, error) {
	enc, err := model.Encode(v)
	if err != nil {
		return false, fmt.Errorf("encoded set add: %w", err)
	}
	i, found := slices.BinarySearchFunc(s.items, enc, bytes.Compare)
	if found {
		return false, nil
	}
	s.items = slices.Insert(s.items, i, enc)
	return true, nil
}

// Contains reports whether a value equal to v is present.
func (s *Set[T]) Contains(v T) (bool, error) {
	enc, err := model.Encode(v)
	if err != nil {
		return false, fmt.Errorf("encoded set contains: %w", err)
	}
	_, found := slices.BinarySearchFunc(s.items, enc, bytes.Compare)
	return found, nil
}

// Len returns the number of distinct encodings.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// At decodes the element at sorted position i.
func (s *Set[T]) At(i int) (T, error) {
	var v T
	if i < 0 || i >= len(s.items) {
		return v, fmt.Errorf("encoded set: index %d out of range [0,%d)", i, len(s.items))
	}
	if err := json.Unmarshal(s.items[i], &v); err != nil {
		return v, fmt.Errorf("encoded set decode %d: %w", i, err)
	}
	return v, nil
}

// Values decodes every element in sorted order.
func (s *Set[T]) Values() ([]T, error) {
	out := make([]T, 0, len(s.items))
	for i := range s.items {
		v, err := s.At(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Encodings returns a copy of the sorted encodings.
func (s *Set[T]) Encodings() [][]byte {
	out := make([][]byte, len(s.items))
	for i, b := range s.items {
		out[i] = bytes.Clone(b)
	}
	return out
}
