// Package config loads kineticdb settings.
//
// Precedence, lowest first: built-in defaults, a YAML file, KINETICDB_*
// environment variables, command-line flags (applied by the cli package).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/rmgdb/kineticdb/internal/database"
	"github.com/rmgdb/kineticdb/internal/eventsource"
	"github.com/rmgdb/kineticdb/internal/eventstore"
)

// Config is the full application configuration.
type Config struct {
	// Driver selects the event store backend: memory, sqlite or badger.
	Driver string `yaml:"driver" env:"KINETICDB_DRIVER"`

	// Path is the SQLite file or Badger directory. Ignored by memory.
	Path string `yaml:"path" env:"KINETICDB_PATH"`

	// Database selects the whole-graph database variant: object or memory.
	Database string `yaml:"database" env:"KINETICDB_DATABASE"`

	// FailurePolicy is isolate or abort.
	FailurePolicy string `yaml:"failure_policy" env:"KINETICDB_FAILURE_POLICY"`

	// SetSemantics deduplicates the repository's derived lists.
	SetSemantics bool `yaml:"set_semantics" env:"KINETICDB_SET_SEMANTICS"`

	Log LogConfig `yaml:"log" envPrefix:"KINETICDB_LOG_"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Default returns the built-in configuration: an in-memory log, the object
// database, isolated observer failures and text logs at info level.
func Default() Config {
	return Config{
		Driver:        string(eventstore.DriverMemory),
		Path:          "",
		Database:      string(database.VariantObject),
		FailurePolicy: string(eventsource.IsolateFailures),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load applies the YAML file at path (if non-empty) and then the environment
// on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.applyYAML(data); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// applyYAML overlays data onto cfg. Unknown keys are errors.
func (c *Config) applyYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Validate checks every enumerated setting.
func (c Config) Validate() error {
	var errs []error
	switch eventstore.Driver(c.Driver) {
	case eventstore.DriverMemory:
	case eventstore.DriverSQLite, eventstore.DriverBadger:
		if c.Path == "" {
			errs = append(errs, fmt.Errorf("driver %s requires a path", c.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q (want memory, sqlite or badger)", c.Driver))
	}
	switch database.Variant(c.Database) {
	case database.VariantMemory, database.VariantObject:
	default:
		errs = append(errs, fmt.Errorf("unknown database variant %q (want object or memory)", c.Database))
	}
	if _, err := eventsource.ParseFailurePolicy(c.FailurePolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format))
	}
	return errors.Join(errs...)
}

// NewLogger builds the configured slog logger writing to w.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.Log.Format)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
