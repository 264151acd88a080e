package model

import "github.com/rmgdb/kineticdb/internal/canon"

// Arrhenius is the modified Arrhenius rate law k = A T^n exp(-E/RT).
type Arrhenius struct {
	A      float64  `json:"a"`
	ASI    float64  `json:"a_si"`
	ADelta *float64 `json:"a_delta,omitempty"`
	AUnits string   `json:"a_units"`
	N      float64  `json:"n"`
	E      float64  `json:"e"`
	ESI    float64  `json:"e_si"`
	EDelta *float64 `json:"e_delta,omitempty"`
	EUnits string   `json:"e_units"`
	S      string   `json:"s"`
}

func (a Arrhenius) Canonical() canon.Object {
	obj := canon.Object{
		"a":       canon.Float(a.A),
		"a_si":    canon.Float(a.ASI),
		"a_units": canon.String(a.AUnits),
		"n":       canon.Float(a.N),
		"e":       canon.Float(a.E),
		"e_si":    canon.Float(a.ESI),
		"e_units": canon.String(a.EUnits),
		"s":       canon.String(a.S),
	}
	obj.SetOptional("a_delta", a.ADelta)
	obj.SetOptional("e_delta", a.EDelta)
	return obj
}

// ArrheniusEP is the Arrhenius rate law with Evans-Polanyi activation energy.
type ArrheniusEP struct {
	A       float64 `json:"a"`
	ASI     float64 `json:"a_si"`
	AUnits  string  `json:"a_units"`
	N       float64 `json:"n"`
	E0      float64 `json:"e0"`
	E0SI    float64 `json:"e0_si"`
	E0Units string  `json:"e0_units"`
}

func (a ArrheniusEP) Canonical() canon.Object {
	return canon.Object{
		"a":        canon.Float(a.A),
		"a_si":     canon.Float(a.ASI),
		"a_units":  canon.String(a.AUnits),
		"n":        canon.Float(a.N),
		"e0":       canon.Float(a.E0),
		"e0_si":    canon.Float(a.E0SI),
		"e0_units": canon.String(a.E0Units),
	}
}

// KineticsData is a tagged union of rate laws. Exactly one field is set;
// inputs violating that are rejected at the boundary.
type KineticsData struct {
	Arrhenius   *Arrhenius   `json:"arrhenius,omitempty"`
	ArrheniusEP *ArrheniusEP `json:"arrhenius_ep,omitempty"`
}

func (d KineticsData) Canonical() canon.Object {
	obj := canon.Object{}
	if d.Arrhenius != nil {
		obj["arrhenius"] = d.Arrhenius.Canonical()
	}
	if d.ArrheniusEP != nil {
		obj["arrhenius_ep"] = d.ArrheniusEP.Canonical()
	}
	return obj
}

// ColliderSpecies is a third-body species and its collision efficiency.
type ColliderSpecies struct {
	Species    Species `json:"species"`
	Efficiency float64 `json:"efficiency"`
}

func (c ColliderSpecies) Canonical() canon.Object {
	return canon.Object{
		"species":    c.Species.Canonical(),
		"efficiency": canon.Float(c.Efficiency),
	}
}

// Kinetics is a rate expression for one reaction as published by a source.
type Kinetics struct {
	PrimeID         string            `json:"prime_id"`
	Reaction        Reaction          `json:"reaction"`
	Data            KineticsData      `json:"data"`
	ForReverse      bool              `json:"for_reverse"`
	Uncertainty     *float64          `json:"uncertainty,omitempty"`
	MinTemp         *float64          `json:"min_temp,omitempty"`
	MaxTemp         *float64          `json:"max_temp,omitempty"`
	MinPressure     *float64          `json:"min_pressure,omitempty"`
	MaxPressure     *float64          `json:"max_pressure,omitempty"`
	ColliderSpecies []ColliderSpecies `json:"collider_species"`
	Source          Source            `json:"source"`
}

func (k Kinetics) Canonical() canon.Object {
	colliders := make(canon.Set, len(k.ColliderSpecies))
	for n, c := range k.ColliderSpecies {
		colliders[n] = c.Canonical()
	}
	obj := canon.Object{
		"prime_id":         canon.String(k.PrimeID),
		"reaction":         k.Reaction.Canonical(),
		"data":             k.Data.Canonical(),
		"for_reverse":      canon.Bool(k.ForReverse),
		"collider_species": colliders,
		"source":           k.Source.Canonical(),
	}
	obj.SetOptional("uncertainty", k.Uncertainty)
	obj.SetOptional("min_temp", k.MinTemp)
	obj.SetOptional("max_temp", k.MaxTemp)
	obj.SetOptional("min_pressure", k.MinPressure)
	obj.SetOptional("max_pressure", k.MaxPressure)
	return obj
}
