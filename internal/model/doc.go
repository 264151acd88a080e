// Package model defines the immutable value records of a kinetics database.
//
// Entities form a DAG rooted at KineticModel:
//
//	Structure ⊂ Isomer ⊂ Species ⊂ Reaction ⊂ Kinetics ⊂ KineticModel
//	Species ⊂ Thermo, Transport, NamedSpecies ⊂ KineticModel
//	Author ⊂ Source ⊂ Kinetics, Thermo, Transport, KineticModel
//
// An entity's identity is its full structural value. Equality, content keys
// and deduplication all go through Canonical(), never through Go identity or
// slice position: children held in set-valued fields compare by content.
// Entities are never mutated after construction.
package model
