package eventstore

import (
	"context"
	"slices"
	"sync"

	"github.com/rmgdb/kineticdb/internal/model"
)

// ListStore keeps events in memory.
type ListStore struct {
	mu     sync.RWMutex
	events []model.KineticModel
	closed bool
}

var _ Store = (*ListStore)(nil)

func NewListStore() *ListStore {
	return &ListStore{}
}

func (s *ListStore) AppendKineticModel(ctx context.Context, km model.KineticModel) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	// Validate the way persistent stores do, so behavior does not depend
	// on the backend.
	if _, err := encodeEvent(km); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	s.events = append(s.events, km)
	return int64(len(s.events) - 1), nil
}

func (s *ListStore) GetKineticModel(_ context.Context, position int64) (model.KineticModel, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.KineticModel{}, false, ErrClosed
	}
	if position < 0 || position >= int64(len(s.events)) {
		return model.KineticModel{}, false, nil
	}
	return s.events[position], true, nil
}

func (s *ListStore) AllKineticModels(_ context.Context) ([]model.KineticModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := slices.Clone(s.events)
	if out == nil {
		out = []model.KineticModel{}
	}
	return out, nil
}

func (s *ListStore) Len(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return int64(len(s.events)), nil
}

func (s *ListStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
