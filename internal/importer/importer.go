// Package importer implements the recursive graph import shared by every
// entity container.
//
// Each Import function inserts its entity into the matching bucket of a
// Target and then recurses into the entity's children, so a single call on a
// KineticModel leaves every reachable entity in the target. Deduplication is
// the target's job: Add reports whether the value was new, and when it was
// not the subtree is skipped because an earlier import already walked it.
//
// The walk performs no I/O. Errors only come from the target (for example a
// value that cannot be canonically encoded) and abort the walk.
package importer

import (
	"fmt"

	"github.com/rmgdb/kineticdb/internal/model"
)

// SpeciesTarget receives species and everything a species contains.
type SpeciesTarget interface {
	AddSpecies(model.Species) (bool, error)
	AddIsomer(model.Isomer) (bool, error)
	AddStructure(model.Structure) (bool, error)
}

// Target receives every kind of entity.
type Target interface {
	SpeciesTarget
	AddKineticModel(model.KineticModel) (bool, error)
	AddSource(model.Source) (bool, error)
	AddReaction(model.Reaction) (bool, error)
	AddKinetics(model.Kinetics) (bool, error)
	AddThermo(model.Thermo) (bool, error)
	AddTransport(model.Transport) (bool, error)
}

// ImportKineticModel imports km, its source, the species bound by its named
// species, and all of its kinetics, thermo and transport.
func ImportKineticModel(t Target, km model.KineticModel) error {
	added, err := t.AddKineticModel(km)
	if err != nil {
		return fmt.Errorf("import kinetic model %s: %w", km.ID, err)
	}
	if !added {
		return nil
	}

	if err := ImportSource(t, km.Source); err != nil {
		return err
	}
	for _, ns := range km.NamedSpecies {
		if err := ImportSpecies(t, ns.Species); err != nil {
			return err
		}
	}
	for _, k := range km.Kinetics {
		if err := ImportKinetics(t, k); err != nil {
			return err
		}
	}
	for _, th := range km.Thermo {
		if err := ImportThermo(t, th); err != nil {
			return err
		}
	}
	for _, tr := range km.Transport {
		if err := ImportTransport(t, tr); err != nil {
			return err
		}
	}
	return nil
}

// ImportKinetics imports k, its reaction, its collider species and its source.
func ImportKinetics(t Target, k model.Kinetics) error {
	added, err := t.AddKinetics(k)
	if err != nil {
		return fmt.Errorf("import kinetics %s: %w", k.PrimeID, err)
	}
	if !added {
		return nil
	}

	if err := ImportReaction(t, k.Reaction); err != nil {
		return err
	}
	for _, c := range k.ColliderSpecies {
		if err := ImportSpecies(t, c.Species); err != nil {
			return err
		}
	}
	return ImportSource(t, k.Source)
}

// ImportReaction imports r and every species in its reaction-species pairs.
func ImportReaction(t Target, r model.Reaction) error {
	added, err := t.AddReaction(r)
	if err != nil {
		return fmt.Errorf("import reaction %s: %w", r.PrimeID, err)
	}
	if !added {
		return nil
	}

	for _, rs := range r.ReactionSpecies {
		if err := ImportSpecies(t, rs.Species); err != nil {
			return err
		}
	}
	return nil
}

// ImportThermo imports th, its species and its source.
func ImportThermo(t Target, th model.Thermo) error {
	added, err := t.AddThermo(th)
	if err != nil {
		return fmt.Errorf("import thermo %s: %w", th.PrimeID, err)
	}
	if !added {
		return nil
	}

	if err := ImportSpecies(t, th.Species); err != nil {
		return err
	}
	return ImportSource(t, th.Source)
}

// ImportTransport imports tr, its species and its source.
func ImportTransport(t Target, tr model.Transport) error {
	added, err := t.AddTransport(tr)
	if err != nil {
		return fmt.Errorf("import transport %s: %w", tr.PrimeID, err)
	}
	if !added {
		return nil
	}

	if err := ImportSpecies(t, tr.Species); err != nil {
		return err
	}
	return ImportSource(t, tr.Source)
}

// ImportSpecies imports s and every isomer.
func ImportSpecies(t SpeciesTarget, s model.Species) error {
	added, err := t.AddSpecies(s)
	if err != nil {
		return fmt.Errorf("import species %s: %w", s.PrimeID, err)
	}
	if !added {
		return nil
	}

	for _, i := range s.Isomers {
		if err := ImportIsomer(t, i); err != nil {
			return err
		}
	}
	return nil
}

// ImportIsomer imports i and every structure.
func ImportIsomer(t SpeciesTarget, i model.Isomer) error {
	added, err := t.AddIsomer(i)
	if err != nil {
		return fmt.Errorf("import isomer %s: %w", i.Inchi, err)
	}
	if !added {
		return nil
	}

	for _, s := range i.Structures {
		if err := ImportStructure(t, s); err != nil {
			return err
		}
	}
	return nil
}

// ImportStructure imports s. Structures are leaves.
func ImportStructure(t SpeciesTarget, s model.Structure) error {
	if _, err := t.AddStructure(s); err != nil {
		return fmt.Errorf("import structure %s: %w", s.Smiles, err)
	}
	return nil
}

// ImportSource imports s. Sources are leaves; authors are part of the source value.
func ImportSource(t Target, s model.Source) error {
	if _, err := t.AddSource(s); err != nil {
		return fmt.Errorf("import source %s: %w", s.PrimeID, err)
	}
	return nil
}
