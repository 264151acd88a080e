package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmgdb/kineticdb/internal/model"
	"github.com/rmgdb/kineticdb/internal/testutil"
)

// recorder is a set-semantics Target keyed by content key.
type recorder struct {
	keys  map[model.Kind]map[string]bool
	calls map[model.Kind]int
	order []model.Kind
	fail  model.Kind
}

func newRecorder() *recorder {
	return &recorder{
		keys:  map[model.Kind]map[string]bool{},
		calls: map[model.Kind]int{},
	}
}

func (r *recorder) add(kind model.Kind, e model.Entity) (bool, error) {
	r.calls[kind]++
	if kind == r.fail {
		return false, errors.New("boom")
	}
	key, err := model.Key(kind, e)
	if err != nil {
		return false, err
	}
	if r.keys[kind] == nil {
		r.keys[kind] = map[string]bool{}
	}
	if r.keys[kind][key] {
		return false, nil
	}
	r.keys[kind][key] = true
	r.order = append(r.order, kind)
	return true, nil
}

func (r *recorder) len(kind model.Kind) int { return len(r.keys[kind]) }

func (r *recorder) AddKineticModel(v model.KineticModel) (bool, error) {
	return r.add(model.KindKineticModel, v)
}
func (r *recorder) AddSource(v model.Source) (bool, error) { return r.add(model.KindSource, v) }
func (r *recorder) AddReaction(v model.Reaction) (bool, error) {
	return r.add(model.KindReaction, v)
}
func (r *recorder) AddKinetics(v model.Kinetics) (bool, error) {
	return r.add(model.KindKinetics, v)
}
func (r *recorder) AddThermo(v model.Thermo) (bool, error) { return r.add(model.KindThermo, v) }
func (r *recorder) AddTransport(v model.Transport) (bool, error) {
	return r.add(model.KindTransport, v)
}
func (r *recorder) AddSpecies(v model.Species) (bool, error) { return r.add(model.KindSpecies, v) }
func (r *recorder) AddIsomer(v model.Isomer) (bool, error)   { return r.add(model.KindIsomer, v) }
func (r *recorder) AddStructure(v model.Structure) (bool, error) {
	return r.add(model.KindStructure, v)
}

func TestImportKineticModel_Simple(t *testing.T) {
	r := newRecorder()
	require.NoError(t, ImportKineticModel(r, testutil.SimpleModel(1)))

	assert.Equal(t, 1, r.len(model.KindStructure))
	assert.Equal(t, 1, r.len(model.KindIsomer))
	assert.Equal(t, 1, r.len(model.KindSpecies))
	assert.Equal(t, 1, r.len(model.KindKineticModel))
	assert.Equal(t, 1, r.len(model.KindSource))
	assert.Equal(t, 0, r.len(model.KindKinetics))
}

func TestImportKineticModel_ReachabilityCompleteness(t *testing.T) {
	r := newRecorder()
	km := testutil.MethaneModel(1)
	require.NoError(t, ImportKineticModel(r, km))

	// methane is named; methyl and hydrogen come from the reaction and thermo,
	// argon from the collider list
	for _, s := range []model.Species{testutil.Methane(), testutil.Methyl(), testutil.Hydrogen(), testutil.Argon()} {
		assert.True(t, r.keys[model.KindSpecies][model.MustKey(model.KindSpecies, s)], "missing species %s", s.PrimeID)
	}
	assert.Equal(t, 4, r.len(model.KindSpecies))
	assert.Equal(t, 4, r.len(model.KindIsomer))
	assert.Equal(t, 4, r.len(model.KindStructure))
	assert.Equal(t, 4, r.len(model.KindSource))
	assert.Equal(t, 1, r.len(model.KindReaction))
	assert.Equal(t, 1, r.len(model.KindKinetics))
	assert.Equal(t, 1, r.len(model.KindThermo))
	assert.Equal(t, 1, r.len(model.KindTransport))
}

func TestImportKineticModel_Idempotent(t *testing.T) {
	once := newRecorder()
	require.NoError(t, ImportKineticModel(once, testutil.MethaneModel(1)))

	twice := newRecorder()
	require.NoError(t, ImportKineticModel(twice, testutil.MethaneModel(1)))
	require.NoError(t, ImportKineticModel(twice, testutil.MethaneModel(1)))

	assert.Equal(t, once.keys, twice.keys)
}

func TestImportKineticModel_SkipsKnownSubtree(t *testing.T) {
	r := newRecorder()
	require.NoError(t, ImportKineticModel(r, testutil.MethaneModel(1)))
	before := r.calls[model.KindSpecies]

	require.NoError(t, ImportKineticModel(r, testutil.MethaneModel(1)))

	assert.Equal(t, 2, r.calls[model.KindKineticModel])
	assert.Equal(t, before, r.calls[model.KindSpecies])
}

func TestImportKineticModel_ParentBeforeChildren(t *testing.T) {
	r := newRecorder()
	require.NoError(t, ImportKineticModel(r, testutil.SimpleModel(1)))

	require.NotEmpty(t, r.order)
	assert.Equal(t, model.KindKineticModel, r.order[0])
	assert.Equal(t, []model.Kind{
		model.KindKineticModel,
		model.KindSource,
		model.KindSpecies,
		model.KindIsomer,
		model.KindStructure,
	}, r.order)
}

func TestImportSpecies_SharedIsomer(t *testing.T) {
	r := newRecorder()
	s1 := testutil.Methane()
	s2 := testutil.Methane()
	s2.PrimeID = "other"

	require.NoError(t, ImportSpecies(r, s1))
	require.NoError(t, ImportSpecies(r, s2))

	assert.Equal(t, 2, r.len(model.KindSpecies))
	assert.Equal(t, 1, r.len(model.KindIsomer))
	assert.Equal(t, 1, r.len(model.KindStructure))
}

func TestImportReaction_ImportsAllSpecies(t *testing.T) {
	r := newRecorder()
	require.NoError(t, ImportReaction(r, testutil.Decomposition().Reaction))

	assert.Equal(t, 1, r.len(model.KindReaction))
	assert.Equal(t, 3, r.len(model.KindSpecies))
}

func TestImport_PropagatesTargetError(t *testing.T) {
	r := newRecorder()
	r.fail = model.KindIsomer

	err := ImportKineticModel(r, testutil.MethaneModel(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import isomer")
	assert.Contains(t, err.Error(), "boom")
}
