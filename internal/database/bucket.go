package database

import (
	"slices"

	"github.com/rmgdb/kineticdb/internal/encodedset"
	"github.com/rmgdb/kineticdb/internal/model"
)

// bucket holds the distinct values of one entity kind.
type bucket[T model.Entity] interface {
	add(v T) (bool, error)
	values() ([]T, error)
	len() int
}

// hashBucket keys values by content key and keeps insertion order.
type hashBucket[T model.Entity] struct {
	kind  model.Kind
	index map[string]struct{}
	items []T
}

func newHashBucket[T model.Entity](kind model.Kind) *hashBucket[T] {
	return &hashBucket[T]{kind: kind, index: make(map[string]struct{})}
}

func (b *hashBucket[T]) add(v T) (bool, error) {
	key, err := model.Key(b.kind, v)
	if err != nil {
		return false, err
	}
	if _, ok := b.index[key]; ok {
		return false, nil
	}
	b.index[key] = struct{}{}
	b.items = append(b.items, v)
	return true, nil
}

func (b *hashBucket[T]) values() ([]T, error) {
	return slices.Clone(b.items), nil
}

func (b *hashBucket[T]) len() int {
	return len(b.items)
}

// setBucket stores canonical encodings in an encodedset.Set.
type setBucket[T model.Entity] struct {
	set *encodedset.Set[T]
}

func newSetBucket[T model.Entity]() *setBucket[T] {
	return &setBucket[T]{set: encodedset.New[T]()}
}

func (b *setBucket[T]) add(v T) (bool, error) {
	return b.set.Add(v)
}

func (b *setBucket[T]) values() ([]T, error) {
	return b.set.Values()
}

func (b *setBucket[T]) len() int {
	return b.set.Len()
}
