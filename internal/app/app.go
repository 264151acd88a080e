// Package app wires the event store, the event source and the read models
// into one running instance. Nothing in kineticdb is a process-wide
// singleton; every component is built here and passed explicitly.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/rmgdb/kineticdb/internal/config"
	"github.com/rmgdb/kineticdb/internal/database"
	"github.com/rmgdb/kineticdb/internal/eventsource"
	"github.com/rmgdb/kineticdb/internal/eventstore"
	"github.com/rmgdb/kineticdb/internal/ident"
	"github.com/rmgdb/kineticdb/internal/metrics"
	"github.com/rmgdb/kineticdb/internal/model"
	"github.com/rmgdb/kineticdb/internal/repository"
	"github.com/rmgdb/kineticdb/internal/schema"
)

// Observer names used for registration, logs and metrics.
const (
	ObserverRepository = "repository"
	ObserverDatabase   = "database"
)

// App is one kineticdb instance.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Store      eventstore.Store
	Source     *eventsource.Source
	Repository *repository.Repository
	Database   *database.DB
	Validator  *schema.Validator
}

type options struct {
	logger *slog.Logger
	gen    ident.Generator
	store  eventstore.Store
}

// Option customizes Open.
type Option func(*options)

// WithLogger overrides the logger built from the configuration.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithGenerator sets the id generator for models submitted without an id.
func WithGenerator(g ident.Generator) Option {
	return func(o *options) {
		o.gen = g
	}
}

// WithStore uses s instead of opening the configured driver. The App takes
// ownership and closes it.
func WithStore(s eventstore.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// Open validates cfg, builds every component, registers the repository and
// the database as observers and catches them up from the stored history.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l, err := cfg.NewLogger(os.Stderr)
		if err != nil {
			return nil, err
		}
		o.logger = l
	}

	validator, err := schema.NewValidator(o.gen)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		store, err = eventstore.Open(eventstore.Driver(cfg.Driver), cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open event store: %w", err)
		}
	}

	db, err := database.New(database.Variant(cfg.Database))
	if err != nil {
		store.Close()
		return nil, err
	}

	var repoOpts []repository.Option
	if cfg.SetSemantics {
		repoOpts = append(repoOpts, repository.WithSetSemantics())
	}
	repo := repository.New(repoOpts...)

	policy, err := eventsource.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		store.Close()
		return nil, err
	}

	m := metrics.New()
	src := eventsource.New(store,
		eventsource.WithLogger(o.logger),
		eventsource.WithMetrics(m),
		eventsource.WithFailurePolicy(policy),
	)
	if err := src.Register(ObserverRepository, repo); err != nil {
		store.Close()
		return nil, err
	}
	if err := src.Register(ObserverDatabase, db); err != nil {
		store.Close()
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Logger:     o.logger,
		Metrics:    m,
		Store:      store,
		Source:     src,
		Repository: repo,
		Database:   db,
		Validator:  validator,
	}

	if err := src.CatchUpObservers(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("catch up: %w", err)
	}

	a.Logger.Debug("kineticdb opened",
		"driver", cfg.Driver,
		"path", cfg.Path,
		"database", cfg.Database,
		"policy", cfg.FailurePolicy,
	)
	return a, nil
}

// Close releases the event store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Submitted pairs a model with the log position it was appended at.
type Submitted struct {
	Position int64              `json:"position"`
	Model    model.KineticModel `json:"model"`
}

// Submit validates a document and sends each model through the event
// source. It stops at the first append failure. Observer failures are
// returned after every model has been appended, joined into one error.
func (a *App) Submit(ctx context.Context, name string, data []byte) ([]Submitted, error) {
	models, err := a.Validator.DecodeFile(name, data)
	if err != nil {
		return nil, err
	}
	return a.SubmitModels(ctx, models)
}

// SubmitModels sends already-validated models through the event source.
func (a *App) SubmitModels(ctx context.Context, models []model.KineticModel) ([]Submitted, error) {
	out := make([]Submitted, 0, len(models))
	var fanOut error
	for _, km := range models {
		pos, err := a.Source.Update(ctx, km)
		if err != nil && !eventsource.IsFanOutError(err) {
			return out, err
		}
		if err != nil && fanOut == nil {
			fanOut = err
		}
		out = append(out, Submitted{Position: pos, Model: km})
	}
	return out, fanOut
}

// GetKineticModel looks id up in the repository.
func (a *App) GetKineticModel(id uuid.UUID) (model.KineticModel, bool) {
	return a.Repository.GetKineticModel(id)
}

// Verification is the outcome of Verify.
type Verification struct {
	Events            int64 `json:"events"`
	RepositoryMatches bool  `json:"repository_matches"`
	DatabaseMatches   bool  `json:"database_matches"`
}

// OK reports whether both read models match a replay of the log.
func (v Verification) OK() bool {
	return v.RepositoryMatches && v.DatabaseMatches
}

// Verify rebuilds a fresh repository and database from the stored history
// and compares them with the live read models.
func (a *App) Verify(ctx context.Context) (Verification, error) {
	history, err := a.Store.AllKineticModels(ctx)
	if err != nil {
		return Verification{}, fmt.Errorf("verify: %w", err)
	}
	v := Verification{Events: int64(len(history))}

	var repoOpts []repository.Option
	if a.Repository.SetSemantics() {
		repoOpts = append(repoOpts, repository.WithSetSemantics())
	}
	repo := repository.New(repoOpts...)
	if err := repo.CatchUp(ctx, history); err != nil {
		return v, fmt.Errorf("verify repository: %w", err)
	}
	v.RepositoryMatches = snapshotsEqual(repo.Snapshot(), a.Repository.Snapshot())

	db, err := database.New(a.Database.Variant())
	if err != nil {
		return v, err
	}
	if err := db.CatchUp(ctx, history); err != nil {
		return v, fmt.Errorf("verify database: %w", err)
	}
	rebuilt, err := db.Digest()
	if err != nil {
		return v, err
	}
	live, err := a.Database.Digest()
	if err != nil {
		return v, err
	}
	v.DatabaseMatches = digestsEqual(rebuilt, live) && latestEqual(history, db, a.Database)

	a.Metrics.Replayed("verify", len(history))
	return v, nil
}
