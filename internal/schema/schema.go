// Package schema validates kinetic model documents at the system boundary.
//
// Documents are JSON or YAML, holding either one model or a list of models.
// Each model is checked against the embedded CUE definition #KineticModel
// before it is decoded, so the core only ever receives well-typed values.
// Models that arrive without an id are given one by the Validator's
// generator.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rmgdb/kineticdb/internal/ident"
	"github.com/rmgdb/kineticdb/internal/model"
)

//go:embed kinetic_model.cue
var schemaCUE string

// Format is an input document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension. Unknown extensions
// are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Validator checks and decodes documents. It is safe for concurrent use.
type Validator struct {
	mu  sync.Mutex // cue.Context is not safe for concurrent use
	ctx *cue.Context
	def cue.Value
	gen ident.Generator
}

// NewValidator compiles the embedded schema. gen supplies ids for models
// without one; nil means UUIDv7.
func NewValidator(gen ident.Generator) (*Validator, error) {
	if gen == nil {
		gen = ident.UUIDv7Generator{}
	}
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("kinetic_model.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#KineticModel"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("lookup #KineticModel: %w", err)
	}
	return &Validator{ctx: ctx, def: def, gen: gen}, nil
}

// Decode validates data and returns its models in document order.
// Schema failures are reported as *ValidationError.
func (v *Validator) Decode(data []byte, format Format) ([]model.KineticModel, error) {
	return v.decode("", data, format)
}

// DecodeFile is Decode with the format taken from name and name used in
// error messages.
func (v *Validator) DecodeFile(name string, data []byte) ([]model.KineticModel, error) {
	return v.decode(name, data, FormatFromPath(name))
}

func (v *Validator) decode(name string, data []byte, format Format) ([]model.KineticModel, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, &ValidationError{Source: name, Violations: []Violation{{Message: err.Error()}}}
	}

	items, err := splitDocument(doc)
	if err != nil {
		return nil, &ValidationError{Source: name, Violations: []Violation{{Message: err.Error()}}}
	}

	if verr := v.validate(name, items); verr != nil {
		return nil, verr
	}

	models := make([]model.KineticModel, 0, len(items))
	for i, item := range items {
		var km model.KineticModel
		if err := json.Unmarshal(item, &km); err != nil {
			return nil, &ValidationError{Source: name, Violations: []Violation{{Index: i, Message: err.Error()}}}
		}
		if km.ID == uuid.Nil {
			km.ID = v.gen.Generate()
		}
		models = append(models, km)
	}
	return models, nil
}

func (v *Validator) validate(name string, items []json.RawMessage) *ValidationError {
	v.mu.Lock()
	defer v.mu.Unlock()

	var all []Violation
	for i, item := range items {
		val := v.ctx.CompileBytes(item, cue.Filename(fmt.Sprintf("model[%d]", i)))
		if err := val.Err(); err != nil {
			all = append(all, violations(i, err)...)
			continue
		}
		if err := v.def.Unify(val).Validate(cue.Concrete(true)); err != nil {
			all = append(all, violations(i, err)...)
		}
	}
	if len(all) > 0 {
		return &ValidationError{Source: name, Violations: all}
	}
	return nil
}

// toJSON converts a YAML document to JSON. JSON passes through.
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// splitDocument returns the models of a single-object or list document.
func splitDocument(doc []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return items, nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("document must be an object or a list of objects")
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("parse json: invalid document")
	}
	return []json.RawMessage{trimmed}, nil
}
