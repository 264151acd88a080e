package eventsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rmgdb/kineticdb/internal/eventstore"
	"github.com/rmgdb/kineticdb/internal/metrics"
	"github.com/rmgdb/kineticdb/internal/model"
)

// Observer is a read model fed by the event stream.
type Observer interface {
	// Accept applies one new event.
	Accept(ctx context.Context, km model.KineticModel) error

	// CatchUp rebuilds the observer from the full history, in log order.
	CatchUp(ctx context.Context, history []model.KineticModel) error
}

// FailurePolicy decides what Update does when an observer fails.
type FailurePolicy string

const (
	IsolateFailures FailurePolicy = "isolate"
	AbortOnFailure  FailurePolicy = "abort"
)

// ParseFailurePolicy accepts "isolate" or "abort".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case IsolateFailures, AbortOnFailure:
		return p, nil
	}
	return "", fmt.Errorf("unknown failure policy %q (want isolate or abort)", s)
}

type namedObserver struct {
	name     string
	observer Observer
}

// Source appends events and notifies observers.
type Source struct {
	mu        sync.Mutex
	store     eventstore.Store
	observers []namedObserver
	policy    FailurePolicy
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// WithMetrics records appends, failures and replays on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Source) {
		s.metrics = m
	}
}

// WithFailurePolicy sets the fan-out failure policy. Default: IsolateFailures.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(s *Source) {
		s.policy = p
	}
}

// New creates a Source writing to store.
func New(store eventstore.Store, opts ...Option) *Source {
	s := &Source{
		store:  store,
		policy: IsolateFailures,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds an observer. Observers are notified in registration order.
// Names must be unique; they identify the observer in logs, metrics and
// errors.
func (s *Source) Register(name string, o Observer) error {
	if name == "" {
		return errors.New("register observer: empty name")
	}
	if o == nil {
		return fmt.Errorf("register observer %s: nil observer", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.observers {
		if existing.name == name {
			return fmt.Errorf("register observer %s: already registered", name)
		}
	}
	s.observers = append(s.observers, namedObserver{name: name, observer: o})
	return nil
}

// Observers returns the registered observer names in notification order.
func (s *Source) Observers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.observers))
	for i, o := range s.observers {
		names[i] = o.name
	}
	return names
}

// Store returns the underlying event store.
func (s *Source) Store() eventstore.Store {
	return s.store
}

// Update appends km and notifies every observer.
//
// If the append fails nothing is notified and the error is returned. If the
// append succeeds the position is always returned, together with a
// *FanOutError when any observer failed.
func (s *Source) Update(ctx context.Context, km model.KineticModel) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	position, err := s.store.AppendKineticModel(ctx, km)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", km.ID, err)
	}

	s.logger.Debug("event appended",
		"position", position,
		"model_id", km.ID.String(),
		"name", km.Name,
	)

	ferr := s.fanOut(position, func(o namedObserver) error {
		return o.observer.Accept(ctx, km)
	})
	s.metrics.Appended(time.Since(start), position+1)

	if ferr != nil {
		return position, ferr
	}
	return position, nil
}

// CatchUpObservers reads the full history once and hands it to every
// observer's CatchUp, applying the failure policy.
func (s *Source) CatchUpObservers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.store.AllKineticModels(ctx)
	if err != nil {
		return fmt.Errorf("catch up: %w", err)
	}
	s.metrics.LogLength(int64(len(history)))

	s.logger.Info("catching up observers",
		"events", len(history),
		"observers", len(s.observers),
	)

	ferr := s.fanOut(int64(len(history))-1, func(o namedObserver) error {
		if err := o.observer.CatchUp(ctx, history); err != nil {
			return err
		}
		s.metrics.Replayed(o.name, len(history))
		return nil
	})
	if ferr != nil {
		return ferr
	}
	return nil
}

// CatchUpObserver rebuilds the single named observer from the full history.
// Use it to recover an observer reported by a *FanOutError.
func (s *Source) CatchUpObserver(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *namedObserver
	for i := range s.observers {
		if s.observers[i].name == name {
			target = &s.observers[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("catch up %s: no such observer", name)
	}

	history, err := s.store.AllKineticModels(ctx)
	if err != nil {
		return fmt.Errorf("catch up %s: %w", name, err)
	}
	if err := target.observer.CatchUp(ctx, history); err != nil {
		s.metrics.ObserverFailed(name)
		return fmt.Errorf("catch up %s: %w", name, err)
	}
	s.metrics.Replayed(name, len(history))
	return nil
}

// fanOut calls deliver for each observer in order. Callers hold s.mu.
func (s *Source) fanOut(position int64, deliver func(namedObserver) error) *FanOutError {
	var ferr *FanOutError
	for i, o := range s.observers {
		err := deliver(o)
		if err == nil {
			continue
		}

		s.logger.Error("observer failed",
			"observer", o.name,
			"position", position,
			"policy", string(s.policy),
			"error", err,
		)
		s.metrics.ObserverFailed(o.name)

		if ferr == nil {
			ferr = &FanOutError{Position: position}
		}
		ferr.Failures = append(ferr.Failures, ObserverFailure{Observer: o.name, Err: err})

		if s.policy == AbortOnFailure {
			for _, rest := range s.observers[i+1:] {
				ferr.Skipped = append(ferr.Skipped, rest.name)
			}
			break
		}
	}
	return ferr
}
