package model

import "github.com/rmgdb/kineticdb/internal/canon"

// ReactionSpecies is a species and its stoichiometric coefficient.
//
// The coefficient is positive for a product, negative for a reactant and
// zero for an inert or spectator species.
type ReactionSpecies struct {
	Coefficient int     `json:"coefficient"`
	Species     Species `json:"species"`
}

func (rs ReactionSpecies) Canonical() canon.Object {
	return canon.Object{
		"coefficient": canon.Int(rs.Coefficient),
		"species":     rs.Species.Canonical(),
	}
}

type Reaction struct {
	PrimeID         string            `json:"prime_id"`
	ReactionSpecies []ReactionSpecies `json:"reaction_species"`
	Reversible      bool              `json:"reversible"`
}

func (r Reaction) Canonical() canon.Object {
	species := make(canon.Set, len(r.ReactionSpecies))
	for n, rs := range r.ReactionSpecies {
		species[n] = rs.Canonical()
	}
	return canon.Object{
		"prime_id":         canon.String(r.PrimeID),
		"reaction_species": species,
		"reversible":       canon.Bool(r.Reversible),
	}
}

// Species returns every species referenced by the reaction, in input order.
func (r Reaction) Species() []Species {
	out := make([]Species, len(r.ReactionSpecies))
	for n, rs := range r.ReactionSpecies {
		out[n] = rs.Species
	}
	return out
}
