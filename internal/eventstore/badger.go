package eventstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/rmgdb/kineticdb/internal/model"
)

// Event keys are prefixEvent followed by the big-endian position, so
// iteration order is log order.
const prefixEvent = byte(0x01)

// BadgerStore keeps events in a Badger database.
type BadgerStore struct {
	mu     sync.RWMutex
	db     *badger.DB
	next   int64
	closed bool
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens or creates a Badger event log in dir. An empty dir opens
// an in-memory database.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	s := &BadgerStore{db: db}
	n, err := s.count()
	if err != nil {
		db.Close()
		return nil, err
	}
	s.next = n
	return s, nil
}

func eventKey(position int64) []byte {
	key := make([]byte, 9)
	key[0] = prefixEvent
	binary.BigEndian.PutUint64(key[1:], uint64(position))
	return key
}

func (s *BadgerStore) count() (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte{prefixEvent}
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (s *BadgerStore) AppendKineticModel(ctx context.Context, km model.KineticModel) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ev, err := encodeEvent(km)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	position := s.next
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(position), ev.Payload)
	})
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}

	s.next++
	return position, nil
}

func (s *BadgerStore) GetKineticModel(_ context.Context, position int64) (model.KineticModel, bool, error) {
	if position < 0 {
		return model.KineticModel{}, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.KineticModel{}, false, ErrClosed
	}

	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(eventKey(position))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.KineticModel{}, false, nil
	}
	if err != nil {
		return model.KineticModel{}, false, fmt.Errorf("read event %d: %w", position, err)
	}

	km, err := decodeEvent(payload)
	if err != nil {
		return model.KineticModel{}, false, fmt.Errorf("read event %d: %w", position, err)
	}
	return km, true, nil
}

// AllKineticModels iterates one read transaction, so the result is a single
// snapshot.
func (s *BadgerStore) AllKineticModels(ctx context.Context) ([]model.KineticModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	models := []model.KineticModel{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte{prefixEvent}
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			position := int64(binary.BigEndian.Uint64(item.Key()[1:]))
			var km model.KineticModel
			err := item.Value(func(val []byte) error {
				var err error
				km, err = decodeEvent(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("read event %d: %w", position, err)
			}
			models = append(models, km)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return models, nil
}

func (s *BadgerStore) Len(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.next, nil
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
