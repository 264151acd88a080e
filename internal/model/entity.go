package model

import (
	"bytes"
	"fmt"

	"github.com/rmgdb/kineticdb/internal/canon"
)

// Entity is any value record with a canonical form.
type Entity interface {
	Canonical() canon.Object
}

// Kind names an entity bucket.
type Kind string

const (
	KindStructure    Kind = "structure"
	KindIsomer       Kind = "isomer"
	KindSpecies      Kind = "species"
	KindReaction     Kind = "reaction"
	KindKinetics     Kind = "kinetics"
	KindThermo       Kind = "thermo"
	KindTransport    Kind = "transport"
	KindKineticModel Kind = "kinetic_model"
	KindSource       Kind = "source"
)

// Kinds lists every bucket in dependency order, leaves first.
var Kinds = []Kind{
	KindStructure,
	KindIsomer,
	KindSpecies,
	KindSource,
	KindReaction,
	KindKinetics,
	KindThermo,
	KindTransport,
	KindKineticModel,
}

// ParseKind accepts a kind name as printed by String, plus plural forms and
// dashes ("kinetic-models", "isomers").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "structure", "structures":
		return KindStructure, nil
	case "isomer", "isomers":
		return KindIsomer, nil
	case "species":
		return KindSpecies, nil
	case "reaction", "reactions":
		return KindReaction, nil
	case "kinetics":
		return KindKinetics, nil
	case "thermo":
		return KindThermo, nil
	case "transport":
		return KindTransport, nil
	case "kinetic_model", "kinetic_models", "kinetic-model", "kinetic-models":
		return KindKineticModel, nil
	case "source", "sources":
		return KindSource, nil
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// Domain returns the hash domain for content keys of this kind.
// The version suffix allows future encoding migration.
func (k Kind) Domain() string {
	return "kineticdb/" + string(k) + "/v1"
}

// Encode returns the canonical encoding of e.
func Encode(e Entity) ([]byte, error) {
	return canon.Marshal(e.Canonical())
}

// Key returns the content-addressed key of e within kind.
func Key(kind Kind, e Entity) (string, error) {
	key, err := canon.Key(kind.Domain(), e.Canonical())
	if err != nil {
		return "", fmt.Errorf("%s key: %w", kind, err)
	}
	return key, nil
}

// MustKey is like Key but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustKey(kind Kind, e Entity) string {
	key, err := Key(kind, e)
	if err != nil {
		panic(err)
	}
	return key
}

// Equal reports whether a and b are the same entity by structural value.
// Values that cannot be encoded are never equal.
func Equal(a, b Entity) bool {
	ea, err := Encode(a)
	if err != nil {
		return false
	}
	eb, err := Encode(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
