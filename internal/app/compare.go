package app

import (
	"slices"

	"github.com/google/uuid"

	"github.com/rmgdb/kineticdb/internal/model"
	"github.com/rmgdb/kineticdb/internal/repository"
)

// snapshotsEqual compares two repository snapshots list by list, by content
// and position.
func snapshotsEqual(a, b repository.Snapshot) bool {
	return listsEqual(a.KineticModels, b.KineticModels) &&
		listsEqual(a.Kinetics, b.Kinetics) &&
		listsEqual(a.Thermo, b.Thermo) &&
		listsEqual(a.Transport, b.Transport) &&
		listsEqual(a.Species, b.Species) &&
		listsEqual(a.Isomers, b.Isomers) &&
		listsEqual(a.Structures, b.Structures)
}

func listsEqual[T model.Entity](a, b []T) bool {
	return slices.EqualFunc(a, b, func(x, y T) bool { return model.Equal(x, y) })
}

func digestsEqual(a, b map[model.Kind][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for kind, keys := range a {
		if !slices.Equal(keys, b[kind]) {
			return false
		}
	}
	return true
}

type modelsByID interface {
	GetKineticModel(id uuid.UUID) (model.KineticModel, bool)
}

// latestEqual reports whether got returns the same latest model as want for
// each id in history.
func latestEqual(history []model.KineticModel, want modelsByID, got ...modelsByID) bool {
	for _, km := range history {
		expected, ok := want.GetKineticModel(km.ID)
		if !ok {
			return false
		}
		for _, m := range got {
			actual, ok := m.GetKineticModel(km.ID)
			if !ok || !model.Equal(expected, actual) {
				return false
			}
		}
	}
	return true
}
