package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmgdb/kineticdb/internal/ident"
	"github.com/rmgdb/kineticdb/internal/model"
	"github.com/rmgdb/kineticdb/internal/testutil"
)

func newTestValidator(t *testing.T, ids ...uuid.UUID) *Validator {
	t.Helper()
	v, err := NewValidator(ident.NewFixedGenerator(ids...))
	require.NoError(t, err)
	return v
}

const minimalYAML = `
name: hydrogen-oxygen
prime_id: m00000042
named_species:
  - name: H2
    species:
      prime_id: s00009241
      cas_number: 1333-74-0
      isomers:
        - formula: H2
          inchi: InChI=1S/H2/h1H
          structures:
            - adjlist: "1 H u0 p0 c0 {2,S}\n2 H u0 p0 c0 {1,S}"
              smiles: "[H][H]"
              multiplicity: 1
source:
  doi: 10.1000/h2o2
  title: Hydrogen oxidation
  publication_year: 2012
  authors:
    - firstname: Ada
      lastname: Lovelace
`

func TestDecode_YAML(t *testing.T) {
	id := testutil.ID(5)
	v := newTestValidator(t, id)

	models, err := v.Decode([]byte(minimalYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, models, 1)

	km := models[0]
	assert.Equal(t, id, km.ID, "missing id is generated")
	assert.Equal(t, "hydrogen-oxygen", km.Name)
	require.Len(t, km.NamedSpecies, 1)
	assert.Equal(t, "[H][H]", km.NamedSpecies[0].Species.Isomers[0].Structures[0].Smiles)
	assert.Equal(t, 2012, km.Source.PublicationYear)
}

func TestDecode_JSONRoundTrip(t *testing.T) {
	v := newTestValidator(t)
	km := testutil.MethaneModel(1)

	data, err := json.Marshal(km)
	require.NoError(t, err)

	models, err := v.Decode(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, km.ID, models[0].ID)
	assert.True(t, model.Equal(km, models[0]))
}

func TestDecode_JSONList(t *testing.T) {
	v := newTestValidator(t)
	in := testutil.Models(3)

	data, err := json.Marshal(in)
	require.NoError(t, err)

	models, err := v.Decode(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, models, 3)
	for i := range in {
		assert.True(t, model.Equal(in[i], models[i]))
	}
}

func TestDecode_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m map[string]any)
		path    string
		message string
	}{
		{
			name:   "missing name",
			mutate: func(m map[string]any) { delete(m, "name") },
			path:   "name",
		},
		{
			name:   "unknown field",
			mutate: func(m map[string]any) { m["colour"] = "blue" },
			path:   "colour",
		},
		{
			name:   "bad id",
			mutate: func(m map[string]any) { m["id"] = "not-a-uuid" },
			path:   "id",
		},
		{
			name: "string where number expected",
			mutate: func(m map[string]any) {
				th := m["thermo"].([]any)[0].(map[string]any)
				th["reference_temp"] = "hot"
			},
			path: "thermo.0.reference_temp",
		},
		{
			name: "short polynomial",
			mutate: func(m map[string]any) {
				th := m["thermo"].([]any)[0].(map[string]any)
				th["polynomial1"] = []any{1.0, 2.0}
			},
			path: "thermo.0.polynomial1",
		},
		{
			name: "no rate form",
			mutate: func(m map[string]any) {
				k := m["kinetics"].([]any)[0].(map[string]any)
				k["data"] = map[string]any{}
			},
			path: "kinetics.0.data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			doc := modelMap(t, testutil.MethaneModel(1))
			tt.mutate(doc)
			data, err := json.Marshal(doc)
			require.NoError(t, err)

			_, err = v.Decode(data, FormatJSON)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want *ValidationError, got %T", err)
			require.NotEmpty(t, verr.Violations)

			var paths []string
			for _, viol := range verr.Violations {
				paths = append(paths, viol.Path)
			}
			assert.Contains(t, paths, tt.path)
		})
	}
}

func TestDecode_ListReportsIndex(t *testing.T) {
	v := newTestValidator(t)
	good := modelMap(t, testutil.SimpleModel(1))
	bad := modelMap(t, testutil.SimpleModel(2))
	delete(bad, "source")

	data, err := json.Marshal([]any{good, bad})
	require.NoError(t, err)

	_, err = v.Decode(data, FormatJSON)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, viol := range verr.Violations {
		assert.Equal(t, 1, viol.Index)
	}
	assert.Contains(t, err.Error(), "[1] source")
}

func TestDecode_Malformed(t *testing.T) {
	v := newTestValidator(t)
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"empty", "", FormatJSON},
		{"scalar", "42", FormatJSON},
		{"truncated json", `{"name": "x"`, FormatJSON},
		{"bad yaml", "name: [unclosed", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Decode([]byte(tt.data), tt.format)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestDecodeFile_UsesExtension(t *testing.T) {
	v := newTestValidator(t, testutil.ID(1))
	models, err := v.DecodeFile("models/h2.yml", []byte(minimalYAML))
	require.NoError(t, err)
	assert.Len(t, models, 1)

	_, err = v.DecodeFile("models/h2.json", []byte(minimalYAML))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "models/h2.json", verr.Source)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("a.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("a.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("a"))
}

// modelMap returns km as a generic JSON object for mutation.
func modelMap(t *testing.T, km model.KineticModel) map[string]any {
	t.Helper()
	data, err := json.Marshal(km)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}
