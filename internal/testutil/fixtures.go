// Package testutil provides deterministic kinetic model fixtures for tests.
//
// Every constructor returns a fresh value, so callers may modify the result
// without affecting other tests.
package testutil

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rmgdb/kineticdb/internal/model"
)

// ID returns a fixed, valid UUIDv7-shaped id for n.
func ID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-7000-8000-%012d", n))
}

// F returns a pointer to f for optional numeric fields.
func F(f float64) *float64 {
	return &f
}

func Methane() model.Species {
	return model.Species{
		PrimeID:   "s00009360",
		CASNumber: "74-82-8",
		Isomers: []model.Isomer{{
			Formula: "CH4",
			Inchi:   "InChI=1S/CH4/h1H4",
			Structures: []model.Structure{
				{Adjlist: "1 C u0 p0 c0", Smiles: "C", Multiplicity: 1},
			},
		}},
	}
}

func Methyl() model.Species {
	return model.Species{
		PrimeID:   "s00009350",
		CASNumber: "2229-07-4",
		Isomers: []model.Isomer{{
			Formula: "CH3",
			Inchi:   "InChI=1S/CH3/h1H3",
			Structures: []model.Structure{
				{Adjlist: "multiplicity 2\n1 C u1 p0 c0", Smiles: "[CH3]", Multiplicity: 2},
			},
		}},
	}
}

func Hydrogen() model.Species {
	return model.Species{
		PrimeID:   "s00009279",
		CASNumber: "12385-13-6",
		Isomers: []model.Isomer{{
			Formula: "H",
			Inchi:   "InChI=1S/H",
			Structures: []model.Structure{
				{Adjlist: "multiplicity 2\n1 H u1 p0 c0", Smiles: "[H]", Multiplicity: 2},
			},
		}},
	}
}

// Argon is used as a collider only.
func Argon() model.Species {
	return model.Species{
		PrimeID:   "s00010062",
		CASNumber: "7440-37-1",
		Isomers: []model.Isomer{{
			Formula: "Ar",
			Inchi:   "InChI=1S/Ar",
			Structures: []model.Structure{
				{Adjlist: "1 Ar u0 p4 c0", Smiles: "[Ar]", Multiplicity: 1},
			},
		}},
	}
}

// Source returns the n-th distinct publication.
func Source(n int) model.Source {
	return model.Source{
		DOI:             fmt.Sprintf("10.1000/kin.%d", n),
		PrimeID:         fmt.Sprintf("b%08d", n),
		PublicationYear: 2000 + n,
		Title:           fmt.Sprintf("Methane chemistry, part %d", n),
		JournalName:     "Int. J. Chem. Kinet.",
		JournalVolume:   fmt.Sprintf("%d", 30+n),
		PageNumbers:     "1-12",
		Authors: []model.Author{
			{Firstname: "Ada", Lastname: "Lovelace"},
			{Firstname: "Alan", Lastname: "Turing"},
		},
	}
}

// Decomposition is CH4 <=> CH3 + H with an Arrhenius rate and an argon collider.
func Decomposition() model.Kinetics {
	return model.Kinetics{
		PrimeID: "r00000001",
		Reaction: model.Reaction{
			PrimeID: "r00000001",
			ReactionSpecies: []model.ReactionSpecies{
				{Coefficient: -1, Species: Methane()},
				{Coefficient: 1, Species: Methyl()},
				{Coefficient: 1, Species: Hydrogen()},
			},
			Reversible: true,
		},
		Data: model.KineticsData{Arrhenius: &model.Arrhenius{
			A: 2.4e16, ASI: 2.4e16, AUnits: "s^-1",
			N: 0, E: 104.9, ESI: 438900, EUnits: "kcal/mol",
		}},
		Uncertainty: F(0.3),
		MinTemp:     F(1000),
		MaxTemp:     F(2500),
		ColliderSpecies: []model.ColliderSpecies{
			{Species: Argon(), Efficiency: 0.7},
		},
		Source: Source(2),
	}
}

// HydrogenThermo is thermo data for a species that is not named by MethaneModel.
func HydrogenThermo() model.Thermo {
	return model.Thermo{
		PrimeID:           "thp00000001",
		PreferredKey:      "H",
		Species:           Hydrogen(),
		ReferenceTemp:     298.15,
		ReferencePressure: 100000,
		EnthalpyFormation: 217.998,
		Polynomial1:       []float64{2.5, 0, 0, 0, 0, 25473.66, -0.44668285},
		Polynomial2:       []float64{2.5, 0, 0, 0, 0, 25473.66, -0.44668285},
		MinTemp1:          200,
		MaxTemp1:          1000,
		MinTemp2:          1000,
		MaxTemp2:          6000,
		Source:            Source(3),
	}
}

func MethaneTransport() model.Transport {
	return model.Transport{
		PrimeID:              "tr00000001",
		Species:              Methane(),
		Geometry:             2,
		WellDepth:            141.4,
		CollisionDiameter:    3.746,
		DipoleMoment:         0,
		Polarizability:       2.6,
		RotationalRelaxation: 13,
		Source:               Source(4),
	}
}

// SimpleModel has one named species with one isomer and one structure, and
// nothing else besides its source.
func SimpleModel(n int) model.KineticModel {
	return model.KineticModel{
		ID:      ID(n),
		Name:    fmt.Sprintf("simple-%d", n),
		PrimeID: fmt.Sprintf("m%08d", n),
		NamedSpecies: []model.NamedSpecies{
			{Name: "CH4", Species: Methane()},
		},
		Source: Source(1),
	}
}

// MethaneModel names only methane. Methyl and hydrogen are reachable through
// the reaction and the thermo, and argon only through the collider list.
func MethaneModel(n int) model.KineticModel {
	return model.KineticModel{
		ID:      ID(n),
		Name:    fmt.Sprintf("methane-%d", n),
		PrimeID: fmt.Sprintf("m%08d", n),
		NamedSpecies: []model.NamedSpecies{
			{Name: "CH4", Species: Methane()},
		},
		Kinetics:  []model.Kinetics{Decomposition()},
		Thermo:    []model.Thermo{HydrogenThermo()},
		Transport: []model.Transport{MethaneTransport()},
		Source:    Source(1),
	}
}

// Models returns n distinct kinetic models that share species and sources.
func Models(n int) []model.KineticModel {
	out := make([]model.KineticModel, n)
	for i := range out {
		km := MethaneModel(i + 1)
		if i%2 == 1 {
			km.NamedSpecies = append(km.NamedSpecies, model.NamedSpecies{Name: "CH3", Species: Methyl()})
		}
		out[i] = km
	}
	return out
}
