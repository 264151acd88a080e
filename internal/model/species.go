package model

import "github.com/rmgdb/kineticdb/internal/canon"

// Structure is an unambiguous representation of an atom or molecule.
type Structure struct {
	Adjlist      string `json:"adjlist"`
	Smiles       string `json:"smiles"`
	Multiplicity int    `json:"multiplicity"`
}

// Canonical returns the canonical form of s.
func (s Structure) Canonical() canon.Object {
	return canon.Object{
		"adjlist":      canon.String(s.Adjlist),
		"smiles":       canon.String(s.Smiles),
		"multiplicity": canon.Int(s.Multiplicity),
	}
}

// Isomer is a molecule with a particular bonding structure.
type Isomer struct {
	Formula    string      `json:"formula"`
	Inchi      string      `json:"inchi"`
	Structures []Structure `json:"structures"`
}

// Canonical returns the canonical form of i. Structures compare as a set.
func (i Isomer) Canonical() canon.Object {
	structures := make(canon.Set, len(i.Structures))
	for n, s := range i.Structures {
		structures[n] = s.Canonical()
	}
	return canon.Object{
		"formula":    canon.String(i.Formula),
		"inchi":      canon.String(i.Inchi),
		"structures": structures,
	}
}

// Species is a generalized chemical species consisting of a unique subset of
// isomers with the same chemical formula.
type Species struct {
	PrimeID   string   `json:"prime_id"`
	CASNumber string   `json:"cas_number"`
	Isomers   []Isomer `json:"isomers"`
}

// Canonical returns the canonical form of s. Isomers compare as a set.
func (s Species) Canonical() canon.Object {
	isomers := make(canon.Set, len(s.Isomers))
	for n, i := range s.Isomers {
		isomers[n] = i.Canonical()
	}
	return canon.Object{
		"prime_id":   canon.String(s.PrimeID),
		"cas_number": canon.String(s.CASNumber),
		"isomers":    isomers,
	}
}
