// Package repository implements the kinetic model read model.
//
// A Repository is an event observer. It keeps the latest model for every id
// (a later event with the same id replaces the earlier one) and flat lists of
// the kinetics, thermo, transport, species, isomers and structures seen in
// accepted models. Species, isomers and structures are collected by running
// the graph importer over each model's named species.
//
// By default the derived lists accumulate: a species shared by two accepted
// models is listed twice. WithSetSemantics deduplicates every derived list
// by content instead.
package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/rmgdb/kineticdb/internal/importer"
	"github.com/rmgdb/kineticdb/internal/model"
)

// Repository is safe for concurrent use.
type Repository struct {
	mu  sync.RWMutex
	set bool

	models map[uuid.UUID]model.KineticModel
	order  []uuid.UUID // first-seen order of ids

	kinetics   []model.Kinetics
	thermo     []model.Thermo
	transport  []model.Transport
	species    []model.Species
	isomers    []model.Isomer
	structures []model.Structure

	// seen holds content keys per kind when set semantics are on.
	seen map[model.Kind]map[string]struct{}
}

// Option configures a Repository.
type Option func(*Repository)

// WithSetSemantics deduplicates derived lists by content.
func WithSetSemantics() Option {
	return func(r *Repository) {
		r.set = true
	}
}

// New returns an empty repository.
func New(opts ...Option) *Repository {
	r := &Repository{}
	for _, opt := range opts {
		opt(r)
	}
	r.reset()
	return r
}

// SetSemantics reports whether derived lists are deduplicated.
func (r *Repository) SetSemantics() bool {
	return r.set
}

func (r *Repository) reset() {
	r.models = make(map[uuid.UUID]model.KineticModel)
	r.order = nil
	r.kinetics = nil
	r.thermo = nil
	r.transport = nil
	r.species = nil
	r.isomers = nil
	r.structures = nil
	r.seen = make(map[model.Kind]map[string]struct{})
}

// Accept applies one event.
func (r *Repository) Accept(_ context.Context, km model.KineticModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accept(km)
}

// CatchUp replaces the repository state with the result of accepting every
// model in history, in order.
func (r *Repository) CatchUp(ctx context.Context, history []model.KineticModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reset()
	for i, km := range history {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.accept(km); err != nil {
			return fmt.Errorf("catch up at %d: %w", i, err)
		}
	}
	return nil
}

func (r *Repository) accept(km model.KineticModel) error {
	if _, ok := r.models[km.ID]; !ok {
		r.order = append(r.order, km.ID)
	}
	r.models[km.ID] = km

	for _, k := range km.Kinetics {
		if _, err := addEntity(r, model.KindKinetics, &r.kinetics, k); err != nil {
			return fmt.Errorf("accept %s: %w", km.ID, err)
		}
	}
	for _, th := range km.Thermo {
		if _, err := addEntity(r, model.KindThermo, &r.thermo, th); err != nil {
			return fmt.Errorf("accept %s: %w", km.ID, err)
		}
	}
	for _, tr := range km.Transport {
		if _, err := addEntity(r, model.KindTransport, &r.transport, tr); err != nil {
			return fmt.Errorf("accept %s: %w", km.ID, err)
		}
	}
	for _, ns := range km.NamedSpecies {
		if err := importer.ImportSpecies(speciesTarget{r}, ns.Species); err != nil {
			return fmt.Errorf("accept %s: %w", km.ID, err)
		}
	}
	return nil
}

// addEntity extends list with v. Under set semantics a value whose content
// key was already seen is skipped and reported as not added.
func addEntity[T model.Entity](r *Repository, kind model.Kind, list *[]T, v T) (bool, error) {
	if r.set {
		key, err := model.Key(kind, v)
		if err != nil {
			return false, err
		}
		seen := r.seen[kind]
		if seen == nil {
			seen = make(map[string]struct{})
			r.seen[kind] = seen
		}
		if _, ok := seen[key]; ok {
			return false, nil
		}
		seen[key] = struct{}{}
	}
	*list = append(*list, v)
	return true, nil
}

// speciesTarget feeds the importer's species walk into the derived lists.
type speciesTarget struct {
	r *Repository
}

func (t speciesTarget) AddSpecies(s model.Species) (bool, error) {
	return addEntity(t.r, model.KindSpecies, &t.r.species, s)
}

func (t speciesTarget) AddIsomer(i model.Isomer) (bool, error) {
	return addEntity(t.r, model.KindIsomer, &t.r.isomers, i)
}

func (t speciesTarget) AddStructure(s model.Structure) (bool, error) {
	return addEntity(t.r, model.KindStructure, &t.r.structures, s)
}

// GetKineticModel returns the latest model accepted with id.
func (r *Repository) GetKineticModel(id uuid.UUID) (model.KineticModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	km, ok := r.models[id]
	return km, ok
}

// KineticModels returns the latest model per id, in the order ids were
// first seen.
func (r *Repository) KineticModels() []model.KineticModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.kineticModels()
}

func (r *Repository) kineticModels() []model.KineticModel {
	out := make([]model.KineticModel, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.models[id])
	}
	return out
}

func (r *Repository) Kinetics() []model.Kinetics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.kinetics)
}

func (r *Repository) Thermo() []model.Thermo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.thermo)
}

func (r *Repository) Transport() []model.Transport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.transport)
}

func (r *Repository) Species() []model.Species {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.species)
}

func (r *Repository) Isomers() []model.Isomer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.isomers)
}

func (r *Repository) Structures() []model.Structure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.structures)
}

// Snapshot is the full observable state of a Repository.
type Snapshot struct {
	KineticModels []model.KineticModel `json:"kinetic_models"`
	Kinetics      []model.Kinetics     `json:"kinetics"`
	Thermo        []model.Thermo       `json:"thermo"`
	Transport     []model.Transport    `json:"transport"`
	Species       []model.Species      `json:"species"`
	Isomers       []model.Isomer       `json:"isomers"`
	Structures    []model.Structure    `json:"structures"`
}

// Counts returns the length of every list, keyed by kind.
func (s Snapshot) Counts() map[model.Kind]int {
	return map[model.Kind]int{
		model.KindKineticModel: len(s.KineticModels),
		model.KindKinetics:     len(s.Kinetics),
		model.KindThermo:       len(s.Thermo),
		model.KindTransport:    len(s.Transport),
		model.KindSpecies:      len(s.Species),
		model.KindIsomer:       len(s.Isomers),
		model.KindStructure:    len(s.Structures),
	}
}

// Snapshot copies the current state under one read lock.
func (r *Repository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		KineticModels: r.kineticModels(),
		Kinetics:      slices.Clone(r.kinetics),
		Thermo:        slices.Clone(r.thermo),
		Transport:     slices.Clone(r.transport),
		Species:       slices.Clone(r.species),
		Isomers:       slices.Clone(r.isomers),
		Structures:    slices.Clone(r.structures),
	}
}
