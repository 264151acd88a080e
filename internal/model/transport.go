package model

import "github.com/rmgdb/kineticdb/internal/canon"

// Transport holds Lennard-Jones style transport parameters for one species.
type Transport struct {
	PrimeID              string  `json:"prime_id"`
	Species              Species `json:"species"`
	Geometry             float64 `json:"geometry"`
	WellDepth            float64 `json:"well_depth"`
	CollisionDiameter    float64 `json:"collision_diameter"`
	DipoleMoment         float64 `json:"dipole_moment"`
	Polarizability       float64 `json:"polarizability"`
	RotationalRelaxation float64 `json:"rotational_relaxation"`
	Source               Source  `json:"source"`
}

func (t Transport) Canonical() canon.Object {
	return canon.Object{
		"prime_id":              canon.String(t.PrimeID),
		"species":               t.Species.Canonical(),
		"geometry":              canon.Float(t.Geometry),
		"well_depth":            canon.Float(t.WellDepth),
		"collision_diameter":    canon.Float(t.CollisionDiameter),
		"dipole_moment":         canon.Float(t.DipoleMoment),
		"polarizability":        canon.Float(t.Polarizability),
		"rotational_relaxation": canon.Float(t.RotationalRelaxation),
		"source":                t.Source.Canonical(),
	}
}
