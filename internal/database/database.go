// Package database provides the whole-graph entity containers.
//
// A DB receives kinetic models through the graph importer and keeps one
// bucket of distinct values per entity kind. Two variants exist:
//
//   - NewMemory keys each bucket by content hash and lists values in the
//     order they were first imported.
//   - NewObject stores canonical encodings in sorted encoded sets, so two
//     databases fed the same events in any order hold identical content.
//
// Both variants satisfy importer.Target and the event source observer
// contract, and are safe for concurrent use.
package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rmgdb/kineticdb/internal/importer"
	"github.com/rmgdb/kineticdb/internal/model"
)

// Database is the read and import surface shared by every variant.
type Database interface {
	ImportKineticModel(model.KineticModel) error
	ImportKinetics(model.Kinetics) error
	ImportReaction(model.Reaction) error
	ImportThermo(model.Thermo) error
	ImportTransport(model.Transport) error
	ImportSpecies(model.Species) error
	ImportIsomer(model.Isomer) error
	ImportStructure(model.Structure) error
	ImportSource(model.Source) error

	GetKineticModel(id uuid.UUID) (model.KineticModel, bool)
	KineticModels() ([]model.KineticModel, error)
	Kinetics() ([]model.Kinetics, error)
	Reactions() ([]model.Reaction, error)
	Thermo() ([]model.Thermo, error)
	Transport() ([]model.Transport, error)
	Species() ([]model.Species, error)
	Isomers() ([]model.Isomer, error)
	Structures() ([]model.Structure, error)
	Sources() ([]model.Source, error)
	Len(kind model.Kind) int
}

// Variant names a bucket implementation.
type Variant string

const (
	VariantMemory Variant = "memory"
	VariantObject Variant = "object"
)

// DB is a Database built from one bucket per kind.
type DB struct {
	mu      sync.RWMutex
	variant Variant

	kineticModels bucket[model.KineticModel]
	kinetics      bucket[model.Kinetics]
	reactions     bucket[model.Reaction]
	thermo        bucket[model.Thermo]
	transport     bucket[model.Transport]
	species       bucket[model.Species]
	isomers       bucket[model.Isomer]
	structures    bucket[model.Structure]
	sources       bucket[model.Source]

	// byID holds the most recently imported model for each id.
	byID map[uuid.UUID]model.KineticModel
}

var _ Database = (*DB)(nil)

// NewMemory returns a database whose buckets are hash-keyed and keep
// first-import order.
func NewMemory() *DB {
	return &DB{
		variant:       VariantMemory,
		kineticModels: newHashBucket[model.KineticModel](model.KindKineticModel),
		kinetics:      newHashBucket[model.Kinetics](model.KindKinetics),
		reactions:     newHashBucket[model.Reaction](model.KindReaction),
		thermo:        newHashBucket[model.Thermo](model.KindThermo),
		transport:     newHashBucket[model.Transport](model.KindTransport),
		species:       newHashBucket[model.Species](model.KindSpecies),
		isomers:       newHashBucket[model.Isomer](model.KindIsomer),
		structures:    newHashBucket[model.Structure](model.KindStructure),
		sources:       newHashBucket[model.Source](model.KindSource),
		byID:          make(map[uuid.UUID]model.KineticModel),
	}
}

// NewObject returns a database whose buckets are encoded sets.
// Listing order is the sort order of canonical encodings.
func NewObject() *DB {
	return &DB{
		variant:       VariantObject,
		kineticModels: newSetBucket[model.KineticModel](),
		kinetics:      newSetBucket[model.Kinetics](),
		reactions:     newSetBucket[model.Reaction](),
		thermo:        newSetBucket[model.Thermo](),
		transport:     newSetBucket[model.Transport](),
		species:       newSetBucket[model.Species](),
		isomers:       newSetBucket[model.Isomer](),
		structures:    newSetBucket[model.Structure](),
		sources:       newSetBucket[model.Source](),
		byID:          make(map[uuid.UUID]model.KineticModel),
	}
}

// New returns a database of the named variant.
func New(v Variant) (*DB, error) {
	switch v {
	case VariantMemory:
		return NewMemory(), nil
	case VariantObject:
		return NewObject(), nil
	}
	return nil, fmt.Errorf("unknown database variant %q", v)
}

// reset empties every bucket, keeping the variant.
func (db *DB) reset() {
	fresh, _ := New(db.variant)
	db.mu.Lock()
	defer db.mu.Unlock()
	db.kineticModels = fresh.kineticModels
	db.kinetics = fresh.kinetics
	db.reactions = fresh.reactions
	db.thermo = fresh.thermo
	db.transport = fresh.transport
	db.species = fresh.species
	db.isomers = fresh.isomers
	db.structures = fresh.structures
	db.sources = fresh.sources
	db.byID = fresh.byID
}

// Variant reports which bucket implementation db uses.
func (db *DB) Variant() Variant {
	return db.variant
}

// The Add methods implement importer.Target. They do not lock; use the
// Import methods, which hold db.mu for the whole walk.

func (db *DB) AddKineticModel(km model.KineticModel) (bool, error) {
	added, err := db.kineticModels.add(km)
	if err != nil {
		return false, err
	}
	// a repeated model is still the latest for its id
	db.byID[km.ID] = km
	return added, nil
}

func (db *DB) AddKinetics(k model.Kinetics) (bool, error)    { return db.kinetics.add(k) }
func (db *DB) AddReaction(r model.Reaction) (bool, error)    { return db.reactions.add(r) }
func (db *DB) AddThermo(th model.Thermo) (bool, error)       { return db.thermo.add(th) }
func (db *DB) AddTransport(tr model.Transport) (bool, error) { return db.transport.add(tr) }
func (db *DB) AddSpecies(s model.Species) (bool, error)      { return db.species.add(s) }
func (db *DB) AddIsomer(i model.Isomer) (bool, error)        { return db.isomers.add(i) }
func (db *DB) AddStructure(s model.Structure) (bool, error)  { return db.structures.add(s) }
func (db *DB) AddSource(s model.Source) (bool, error)        { return db.sources.add(s) }

func (db *DB) importLocked(fn func(importer.Target) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db)
}

func (db *DB) ImportKineticModel(km model.KineticModel) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportKineticModel(t, km) })
}

func (db *DB) ImportKinetics(k model.Kinetics) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportKinetics(t, k) })
}

func (db *DB) ImportReaction(r model.Reaction) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportReaction(t, r) })
}

func (db *DB) ImportThermo(th model.Thermo) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportThermo(t, th) })
}

func (db *DB) ImportTransport(tr model.Transport) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportTransport(t, tr) })
}

func (db *DB) ImportSpecies(s model.Species) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportSpecies(t, s) })
}

func (db *DB) ImportIsomer(i model.Isomer) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportIsomer(t, i) })
}

func (db *DB) ImportStructure(s model.Structure) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportStructure(t, s) })
}

func (db *DB) ImportSource(s model.Source) error {
	return db.importLocked(func(t importer.Target) error { return importer.ImportSource(t, s) })
}

// Accept imports km. It lets a DB be registered as an event observer.
func (db *DB) Accept(_ context.Context, km model.KineticModel) error {
	return db.ImportKineticModel(km)
}

// CatchUp discards the current contents, then imports every model in order.
func (db *DB) CatchUp(ctx context.Context, history []model.KineticModel) error {
	db.reset()
	for i, km := range history {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := db.ImportKineticModel(km); err != nil {
			return fmt.Errorf("catch up at %d: %w", i, err)
		}
	}
	return nil
}

// GetKineticModel returns the model with id that was most recently imported.
func (db *DB) GetKineticModel(id uuid.UUID) (model.KineticModel, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	km, ok := db.byID[id]
	return km, ok
}

func (db *DB) KineticModels() ([]model.KineticModel, error) {
	return readBucket(db, db.kineticModels)
}

func (db *DB) Kinetics() ([]model.Kinetics, error)   { return readBucket(db, db.kinetics) }
func (db *DB) Reactions() ([]model.Reaction, error)  { return readBucket(db, db.reactions) }
func (db *DB) Thermo() ([]model.Thermo, error)       { return readBucket(db, db.thermo) }
func (db *DB) Transport() ([]model.Transport, error) { return readBucket(db, db.transport) }
func (db *DB) Species() ([]model.Species, error)     { return readBucket(db, db.species) }
func (db *DB) Isomers() ([]model.Isomer, error)      { return readBucket(db, db.isomers) }
func (db *DB) Structures() ([]model.Structure, error) {
	return readBucket(db, db.structures)
}
func (db *DB) Sources() ([]model.Source, error) { return readBucket(db, db.sources) }

func readBucket[T model.Entity](db *DB, b bucket[T]) ([]T, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return b.values()
}

// Len returns the number of distinct values of kind.
func (db *DB) Len(kind model.Kind) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	switch kind {
	case model.KindKineticModel:
		return db.kineticModels.len()
	case model.KindKinetics:
		return db.kinetics.len()
	case model.KindReaction:
		return db.reactions.len()
	case model.KindThermo:
		return db.thermo.len()
	case model.KindTransport:
		return db.transport.len()
	case model.KindSpecies:
		return db.species.len()
	case model.KindIsomer:
		return db.isomers.len()
	case model.KindStructure:
		return db.structures.len()
	case model.KindSource:
		return db.sources.len()
	}
	return 0
}

// Counts returns Len for every kind.
func (db *DB) Counts() map[model.Kind]int {
	out := make(map[model.Kind]int, len(model.Kinds))
	for _, k := range model.Kinds {
		out[k] = db.Len(k)
	}
	return out
}

// Digest returns the sorted content keys of every bucket. Two databases hold
// the same content exactly when their digests are equal.
func (db *DB) Digest() (map[model.Kind][]string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make(map[model.Kind][]string, len(model.Kinds))
	var err error
	collect := func(kind model.Kind, keys []string, e error) {
		if err != nil {
			return
		}
		if e != nil {
			err = e
			return
		}
		sort.Strings(keys)
		out[kind] = keys
	}
	keys, e := keysOf(model.KindKineticModel, db.kineticModels)
	collect(model.KindKineticModel, keys, e)
	keys, e = keysOf(model.KindKinetics, db.kinetics)
	collect(model.KindKinetics, keys, e)
	keys, e = keysOf(model.KindReaction, db.reactions)
	collect(model.KindReaction, keys, e)
	keys, e = keysOf(model.KindThermo, db.thermo)
	collect(model.KindThermo, keys, e)
	keys, e = keysOf(model.KindTransport, db.transport)
	collect(model.KindTransport, keys, e)
	keys, e = keysOf(model.KindSpecies, db.species)
	collect(model.KindSpecies, keys, e)
	keys, e = keysOf(model.KindIsomer, db.isomers)
	collect(model.KindIsomer, keys, e)
	keys, e = keysOf(model.KindStructure, db.structures)
	collect(model.KindStructure, keys, e)
	keys, e = keysOf(model.KindSource, db.sources)
	collect(model.KindSource, keys, e)
	if err != nil {
		return nil, fmt.Errorf("digest: %w", err)
	}
	return out, nil
}

func keysOf[T model.Entity](kind model.Kind, b bucket[T]) ([]string, error) {
	values, err := b.values()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for _, v := range values {
		key, err := model.Key(kind, v)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
