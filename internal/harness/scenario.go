package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rmgdb/kineticdb/internal/model"
)

// Scenario defines a conformance scenario.
// A scenario submits model documents through a fresh instance and checks
// the resulting read models against expected counts.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models lists model documents (JSON or YAML) to submit in order.
	// Paths are relative to the scenario file location.
	Models []string `yaml:"models"`

	// SetSemantics makes the repository deduplicate its lists.
	SetSemantics bool `yaml:"set_semantics,omitempty"`

	// Expect holds the expected counts per kind.
	Expect Expectation `yaml:"expect"`
}

// Expectation lists expected entity counts per kind name.
// Kinds that are not named are not checked.
type Expectation struct {
	Events     *int64         `yaml:"events,omitempty"`
	Repository map[string]int `yaml:"repository,omitempty"`
	Database   map[string]int `yaml:"database,omitempty"`
}

// repositoryKinds are the kinds the repository keeps lists for.
var repositoryKinds = []model.Kind{
	model.KindKineticModel,
	model.KindKinetics,
	model.KindThermo,
	model.KindTransport,
	model.KindSpecies,
	model.KindIsomer,
	model.KindStructure,
}

// ModelFileNotFoundError is returned when a scenario references a model
// document that doesn't exist.
type ModelFileNotFoundError struct {
	Scenario     string
	ModelPath    string
	ResolvedPath string
}

// Error implements the error interface.
func (e *ModelFileNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q references model file %q which does not exist (resolved to: %s)",
		e.Scenario, e.ModelPath, e.ResolvedPath)
}

// LoadScenario reads and parses a scenario YAML file.
// Model paths are resolved relative to the scenario's directory.
// Unknown fields (typos) and missing required fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, p := range scenario.Models {
		if !filepath.IsAbs(p) {
			scenario.Models[i] = filepath.Join(base, p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// ScenarioFiles returns the *.yaml and *.yml files directly inside dir,
// sorted by file name. Subdirectories (model documents, golden files) are
// not searched.
func ScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// LoadScenarios loads every scenario file in dir. It fails on the first
// file that does not load.
func LoadScenarios(dir string) ([]*Scenario, error) {
	files, err := ScenarioFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(files))
	for _, f := range files {
		s, err := LoadScenario(f)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Models) == 0 {
		return fmt.Errorf("models list is required and must be non-empty")
	}
	if s.Expect.Events == nil && len(s.Expect.Repository) == 0 && len(s.Expect.Database) == 0 {
		return fmt.Errorf("expect must name at least one count")
	}
	if s.Expect.Events != nil && *s.Expect.Events < 0 {
		return fmt.Errorf("expect.events must be non-negative")
	}

	for i, p := range s.Models {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return &ModelFileNotFoundError{Scenario: s.Name, ModelPath: s.Models[i], ResolvedPath: p}
		}
	}

	for name, n := range s.Expect.Repository {
		kind, err := model.ParseKind(name)
		if err != nil {
			return fmt.Errorf("expect.repository: %w", err)
		}
		if !slices.Contains(repositoryKinds, kind) {
			return fmt.Errorf("expect.repository: the repository does not keep %s", kind)
		}
		if n < 0 {
			return fmt.Errorf("expect.repository.%s: count must be non-negative", name)
		}
	}
	for name, n := range s.Expect.Database {
		if _, err := model.ParseKind(name); err != nil {
			return fmt.Errorf("expect.database: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("expect.database.%s: count must be non-negative", name)
		}
	}
	return nil
}
