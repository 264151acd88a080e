package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rmgdb/kineticdb/internal/model"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("event store closed")

// Store is an append-only, ordered log of kinetic models.
type Store interface {
	// AppendKineticModel records km as the next event and returns its position.
	AppendKineticModel(ctx context.Context, km model.KineticModel) (int64, error)

	// GetKineticModel returns the event at position.
	GetKineticModel(ctx context.Context, position int64) (model.KineticModel, bool, error)

	// AllKineticModels returns every event in append order.
	AllKineticModels(ctx context.Context) ([]model.KineticModel, error)

	// Len returns the number of events.
	Len(ctx context.Context) (int64, error)

	Close() error
}

// Driver names a Store backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverSQLite Driver = "sqlite"
	DriverBadger Driver = "badger"
)

// Open returns a store for driver. path is ignored by the memory driver; an
// empty path opens Badger in memory.
func Open(driver Driver, path string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewListStore(), nil
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverBadger:
		return OpenBadger(path)
	}
	return nil, fmt.Errorf("unknown event store driver %q", driver)
}

// event is the persisted form of one append.
type event struct {
	ModelID    string
	ContentKey string
	Payload    []byte
}

// encodeEvent serializes km for storage. The payload is plain JSON, so list
// order survives for display; ContentKey identifies the content.
func encodeEvent(km model.KineticModel) (event, error) {
	key, err := model.Key(model.KindKineticModel, km)
	if err != nil {
		return event{}, fmt.Errorf("encode event: %w", err)
	}
	payload, err := json.Marshal(km)
	if err != nil {
		return event{}, fmt.Errorf("encode event: %w", err)
	}
	return event{ModelID: km.ID.String(), ContentKey: key, Payload: payload}, nil
}

func decodeEvent(payload []byte) (model.KineticModel, error) {
	var km model.KineticModel
	if err := json.Unmarshal(payload, &km); err != nil {
		return model.KineticModel{}, fmt.Errorf("decode event: %w", err)
	}
	return km, nil
}
