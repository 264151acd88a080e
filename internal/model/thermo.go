package model

import "github.com/rmgdb/kineticdb/internal/canon"

// Thermo is a two-range NASA polynomial fit for one species.
// Polynomial coefficient order is significant.
type Thermo struct {
	PrimeID           string    `json:"prime_id"`
	PreferredKey      string    `json:"preferred_key"`
	Species           Species   `json:"species"`
	ReferenceTemp     float64   `json:"reference_temp"`
	ReferencePressure float64   `json:"reference_pressure"`
	EnthalpyFormation float64   `json:"enthalpy_formation"`
	Polynomial1       []float64 `json:"polynomial1"`
	Polynomial2       []float64 `json:"polynomial2"`
	MinTemp1          float64   `json:"min_temp1"`
	MaxTemp1          float64   `json:"max_temp1"`
	MinTemp2          float64   `json:"min_temp2"`
	MaxTemp2          float64   `json:"max_temp2"`
	Source            Source    `json:"source"`
}

func (t Thermo) Canonical() canon.Object {
	return canon.Object{
		"prime_id":           canon.String(t.PrimeID),
		"preferred_key":      canon.String(t.PreferredKey),
		"species":            t.Species.Canonical(),
		"reference_temp":     canon.Float(t.ReferenceTemp),
		"reference_pressure": canon.Float(t.ReferencePressure),
		"enthalpy_formation": canon.Float(t.EnthalpyFormation),
		"polynomial1":        floats(t.Polynomial1),
		"polynomial2":        floats(t.Polynomial2),
		"min_temp1":          canon.Float(t.MinTemp1),
		"max_temp1":          canon.Float(t.MaxTemp1),
		"min_temp2":          canon.Float(t.MinTemp2),
		"max_temp2":          canon.Float(t.MaxTemp2),
		"source":             t.Source.Canonical(),
	}
}

func floats(fs []float64) canon.Array {
	arr := make(canon.Array, len(fs))
	for n, f := range fs {
		arr[n] = canon.Float(f)
	}
	return arr
}
