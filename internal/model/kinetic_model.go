package model

import (
	"github.com/google/uuid"

	"github.com/rmgdb/kineticdb/internal/canon"
)

// NamedSpecies binds a display name to a species within one kinetic model.
// The same species may carry different names in different models.
type NamedSpecies struct {
	Name    string  `json:"name"`
	Species Species `json:"species"`
}

func (ns NamedSpecies) Canonical() canon.Object {
	return canon.Object{
		"name":    canon.String(ns.Name),
		"species": ns.Species.Canonical(),
	}
}

// KineticModel is the root aggregate and the unit of change in the event log.
//
// ID identifies the model across revisions: appending a model whose ID was
// seen before is an update, not a new model. PrimeID is the external
// PrIMe identifier and carries no identity semantics.
type KineticModel struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	PrimeID      string         `json:"prime_id"`
	NamedSpecies []NamedSpecies `json:"named_species"`
	Kinetics     []Kinetics     `json:"kinetics"`
	Thermo       []Thermo       `json:"thermo"`
	Transport    []Transport    `json:"transport"`
	Source       Source         `json:"source"`
}

func (km KineticModel) Canonical() canon.Object {
	named := make(canon.Set, len(km.NamedSpecies))
	for n, ns := range km.NamedSpecies {
		named[n] = ns.Canonical()
	}
	kinetics := make(canon.Set, len(km.Kinetics))
	for n, k := range km.Kinetics {
		kinetics[n] = k.Canonical()
	}
	thermo := make(canon.Set, len(km.Thermo))
	for n, t := range km.Thermo {
		thermo[n] = t.Canonical()
	}
	transport := make(canon.Set, len(km.Transport))
	for n, t := range km.Transport {
		transport[n] = t.Canonical()
	}
	return canon.Object{
		"id":            canon.String(km.ID.String()),
		"name":          canon.String(km.Name),
		"prime_id":      canon.String(km.PrimeID),
		"named_species": named,
		"kinetics":      kinetics,
		"thermo":        thermo,
		"transport":     transport,
		"source":        km.Source.Canonical(),
	}
}

// Species returns the species bound by the model's named species, in input order.
func (km KineticModel) Species() []Species {
	out := make([]Species, len(km.NamedSpecies))
	for n, ns := range km.NamedSpecies {
		out[n] = ns.Species
	}
	return out
}
