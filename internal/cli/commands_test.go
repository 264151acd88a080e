package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const h2ID = "0190f5c2-8d4a-7c3e-9b1a-2f6d8e4c1a10"

// importH2 appends testdata/h2.yaml to a fresh SQLite store.
func importH2(t *testing.T) string {
	t.Helper()
	db := tempDB(t)
	out, _, err := execute(t, "--db", db, "import", "testdata/h2.yaml")
	require.NoError(t, err, out)
	return db
}

func TestImport_Text(t *testing.T) {
	db := tempDB(t)
	out, _, err := execute(t, "--db", db, "import", "testdata/h2.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "testdata/h2.yaml: hydrogen "+h2ID+" at position 0")
	assert.Contains(t, out, "1 event(s) in log")
}

func TestImport_JSONAppendsAcrossRuns(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "import", "testdata/h2.yaml")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2), data["events"])

	files := data["files"].([]any)
	require.Len(t, files, 1)
	models := files[0].(map[string]any)["models"].([]any)
	require.Len(t, models, 1)
	assert.Equal(t, float64(1), models[0].(map[string]any)["position"])
}

func TestImport_InvalidDocumentAppendsNothing(t *testing.T) {
	db := tempDB(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "import", "testdata/h2.yaml", "testdata/invalid.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)

	out, _, err = execute(t, "--db", db, "--format", "json", "replay")
	require.NoError(t, err)
	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, float64(0), data["events"])
}

func TestImport_InvalidDocumentText(t *testing.T) {
	out, _, err := execute(t, "import", "testdata/invalid.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ testdata/invalid.json")
	assert.Contains(t, out, "name")
}

func TestImport_GeneratedIDIsStored(t *testing.T) {
	raw, err := os.ReadFile("testdata/h2.yaml")
	require.NoError(t, err)
	doc := strings.Replace(string(raw), "id: "+h2ID+"\n", "", 1)
	require.NotContains(t, doc, h2ID)
	path := filepath.Join(t.TempDir(), "h2-no-id.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	db := tempDB(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "import", path)
	require.NoError(t, err, out)
	files := decodeResponse(t, out).Data.(map[string]any)["files"].([]any)
	models := files[0].(map[string]any)["models"].([]any)
	require.Len(t, models, 1)
	id := models[0].(map[string]any)["id"].(string)

	out, _, err = execute(t, "--db", db, "--format", "json", "get", id)
	require.NoError(t, err, out)
	km := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, id, km["id"])
	assert.Equal(t, "hydrogen", km["name"])
}

func TestImport_MissingFile(t *testing.T) {
	_, _, err := execute(t, "import", "testdata/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestImport_RequiresArgument(t *testing.T) {
	_, _, err := execute(t, "import")
	require.Error(t, err)
}

func TestGet_Found(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "get", h2ID)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	km := resp.Data.(map[string]any)
	assert.Equal(t, "hydrogen", km["name"])
	assert.Equal(t, h2ID, km["id"])
}

func TestGet_Text(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "get", h2ID)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "hydrogen"`)
}

func TestGet_NotFound(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "get", "0190f5c2-8d4a-7c3e-9b1a-2f6d8e4c1aff")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestGet_InvalidID(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "get", "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeInvalidID, decodeResponse(t, out).Error.Code)
}

func TestList_Database(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "list", "species")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, "species", data["kind"])
	assert.Equal(t, "database", data["from"])
	assert.Equal(t, float64(1), data["count"])

	items := data["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Regexp(t, `^[0-9a-f]{64}$`, item["key"])
	assert.Equal(t, "s00009241", item["value"].(map[string]any)["prime_id"])
}

func TestList_RepositoryKeepsEveryAcceptance(t *testing.T) {
	db := importH2(t)
	_, _, err := execute(t, "--db", db, "import", "testdata/h2.yaml")
	require.NoError(t, err)

	out, _, err := execute(t, "--db", db, "list", "structures", "--from", "repository")
	require.NoError(t, err)
	assert.Contains(t, out, "2 structure")

	out, _, err = execute(t, "--db", db, "list", "structures")
	require.NoError(t, err)
	assert.Contains(t, out, "1 structure")
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"list", "widgets"}},
		{"repository has no sources", []string{"list", "sources", "--from", "repository"}},
		{"bad source", []string{"list", "species", "--from", "cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestReplay_Text(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "replay")
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 1 event(s)")
	assert.Contains(t, out, "✓ repository")
	assert.Contains(t, out, "✓ database")
	assert.Contains(t, out, "✓ Read models match the log")
}

func TestReplay_JSON(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "replay")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, float64(1), data["events"])
	assert.Equal(t, true, data["repository_matches"])
	assert.Equal(t, true, data["database_matches"])
}

func TestDump_ListsEveryKey(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "dump")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// structure, isomer, species, source, kinetic_model
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "structure "))
	assert.True(t, strings.HasPrefix(lines[4], "kinetic_model "))
}

func TestDump_JSON(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "dump")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Len(t, data["species"], 1)
	assert.Len(t, data["source"], 1)
}

func TestStats_PrometheusText(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "# TYPE kineticdb_event_log_length gauge")
	assert.Contains(t, out, "kineticdb_event_log_length 1")
	assert.Contains(t, out, `kineticdb_events_replayed_total{observer="repository"} 1`)
}

func TestStats_JSON(t *testing.T) {
	db := importH2(t)

	out, _, err := execute(t, "--db", db, "--format", "json", "stats")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, float64(1), data["events"])
	assert.Equal(t, float64(1), data["database"].(map[string]any)["species"])
	assert.Equal(t, float64(1), data["repository"].(map[string]any)["kinetic_model"])
	assert.NotEmpty(t, data["metrics"])
}

func TestValidate(t *testing.T) {
	out, _, err := execute(t, "validate", "testdata/h2.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ testdata/h2.yaml (1 model(s))")

	out, _, err = execute(t, "--format", "json", "validate", "testdata/h2.yaml", "testdata/invalid.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	details := resp.Error.Details.(map[string]any)
	assert.Equal(t, false, details["valid"])
	assert.Len(t, details["files"], 2)
}

const (
	scenariosDir = "../harness/testdata/scenarios"
	goldenDir    = "../harness/testdata/golden"
)

func TestTest_AllScenariosPass(t *testing.T) {
	out, _, err := execute(t, "test", scenariosDir, "--golden", goldenDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ methane_pyrolysis")
	assert.Contains(t, out, "4 passed, 0 failed, 4 total")
}

func TestTest_FilterJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "test", scenariosDir, "--golden", goldenDir, "--filter", "repeated*")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(2), data["passed"])
}

func TestTest_UpdateWritesGolden(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, "test", scenariosDir, "--golden", dir, "--update", "--filter", "shared_species")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ shared_species (golden updated)")

	got, err := os.ReadFile(filepath.Join(dir, "shared_species.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(goldenDir, "shared_species.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestTest_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "methane_pyrolysis.golden"), []byte("{}"), 0644))

	out, _, err := execute(t, "test", scenariosDir, "--golden", dir, "--filter", "methane_pyrolysis")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "summary does not match golden file")
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	model, err := filepath.Abs("testdata/h2.yaml")
	require.NoError(t, err)
	scenario := "name: wrong\ndescription: wrong counts\nmodels: [" + model + "]\nexpect:\n  database:\n    species: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(scenario), 0644))

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "database: expected 5 species, got 1")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestTest_MissingDirectory(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_EmptyDirectory(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}
