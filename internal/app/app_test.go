package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmgdb/kineticdb/internal/config"
	"github.com/rmgdb/kineticdb/internal/eventstore"
	"github.com/rmgdb/kineticdb/internal/ident"
	"github.com/rmgdb/kineticdb/internal/model"
	"github.com/rmgdb/kineticdb/internal/schema"
	"github.com/rmgdb/kineticdb/internal/testutil"
)

func openTestApp(t *testing.T, cfg config.Config, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))}, opts...)
	a, err := Open(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func modelsJSON(t *testing.T, models ...model.KineticModel) []byte {
	t.Helper()
	data, err := json.Marshal(models)
	require.NoError(t, err)
	return data
}

func TestSubmitAndGet(t *testing.T) {
	ctx := context.Background()
	a := openTestApp(t, config.Default())
	km := testutil.MethaneModel(1)

	submitted, err := a.Submit(ctx, "models.json", modelsJSON(t, km))
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	assert.Equal(t, int64(0), submitted[0].Position)

	got, ok := a.GetKineticModel(km.ID)
	require.True(t, ok)
	assert.True(t, model.Equal(km, got))

	assert.Equal(t, 4, a.Database.Len(model.KindSpecies))
	assert.Len(t, a.Repository.Species(), 1)
}

func TestSubmit_InvalidDocumentAppendsNothing(t *testing.T) {
	ctx := context.Background()
	a := openTestApp(t, config.Default())

	_, err := a.Submit(ctx, "bad.json", []byte(`{"name": ""}`))
	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))

	n, err := a.Store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmit_GeneratesMissingID(t *testing.T) {
	ctx := context.Background()
	id := testutil.ID(77)
	a := openTestApp(t, config.Default(), WithGenerator(ident.NewFixedGenerator(id)))

	doc := map[string]any{
		"name":          "anonymous",
		"named_species": []any{},
		"source":        map[string]any{"title": "t", "authors": []any{}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	submitted, err := a.Submit(ctx, "anon.json", data)
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	assert.Equal(t, id, submitted[0].Model.ID)

	_, ok := a.GetKineticModel(id)
	assert.True(t, ok)
}

func TestOpen_CatchesUpFromStore(t *testing.T) {
	ctx := context.Background()
	store := eventstore.NewListStore()
	for _, km := range testutil.Models(3) {
		_, err := store.AppendKineticModel(ctx, km)
		require.NoError(t, err)
	}

	a := openTestApp(t, config.Default(), WithStore(store))

	assert.Len(t, a.Repository.KineticModels(), 3)
	assert.Equal(t, 3, a.Database.Len(model.KindKineticModel))
}

func TestOpen_SQLiteReopen(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Driver = "sqlite"
	cfg.Path = filepath.Join(t.TempDir(), "events.db")

	first, err := Open(ctx, cfg, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)
	_, err = first.SubmitModels(ctx, testutil.Models(2))
	require.NoError(t, err)
	want := first.Repository.Snapshot()
	require.NoError(t, first.Close())

	second := openTestApp(t, cfg)
	assert.Equal(t, want.Counts(), second.Repository.Snapshot().Counts())

	v, err := second.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, v.OK())
	assert.Equal(t, int64(2), v.Events)
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = "postgres"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"object list", func(*config.Config) {}},
		{"memory set", func(c *config.Config) { c.Database = "memory"; c.SetSemantics = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Default()
			tt.mutate(&cfg)
			a := openTestApp(t, cfg)

			_, err := a.SubmitModels(ctx, testutil.Models(4))
			require.NoError(t, err)

			v, err := a.Verify(ctx)
			require.NoError(t, err)
			assert.True(t, v.RepositoryMatches)
			assert.True(t, v.DatabaseMatches)
			assert.Equal(t, int64(4), v.Events)
		})
	}
}

func TestVerify_DetectsDivergence(t *testing.T) {
	ctx := context.Background()
	a := openTestApp(t, config.Default())
	_, err := a.SubmitModels(ctx, testutil.Models(2))
	require.NoError(t, err)

	// a read model fed outside the event source drifts from the log
	require.NoError(t, a.Repository.Accept(ctx, testutil.SimpleModel(50)))

	v, err := a.Verify(ctx)
	require.NoError(t, err)
	assert.False(t, v.RepositoryMatches)
	assert.True(t, v.DatabaseMatches)
	assert.False(t, v.OK())
}

func TestVerify_RepeatedModelKeepsLatest(t *testing.T) {
	ctx := context.Background()
	a := openTestApp(t, config.Default())
	first := testutil.SimpleModel(1)
	second := testutil.MethaneModel(1)

	_, err := a.SubmitModels(ctx, []model.KineticModel{first, second, first})
	require.NoError(t, err)

	fromDB, ok := a.Database.GetKineticModel(first.ID)
	require.True(t, ok)
	fromRepo, ok := a.GetKineticModel(first.ID)
	require.True(t, ok)
	assert.True(t, model.Equal(first, fromDB))
	assert.True(t, model.Equal(fromRepo, fromDB))

	v, err := a.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, v.OK())

	// known content fed outside the event source leaves the digest alone
	// but moves the latest model for the id
	require.NoError(t, a.Database.Accept(ctx, second))
	v, err = a.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, v.RepositoryMatches)
	assert.False(t, v.DatabaseMatches)
}
