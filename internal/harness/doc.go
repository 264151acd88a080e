// Package harness runs conformance scenarios against a fresh kineticdb
// instance.
//
// A scenario submits kinetic model documents, then checks that a replay of
// the event log reproduces the live repository and database, and that the
// read models hold the expected number of entities per kind.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: methane_pyrolysis
//	description: "What this scenario validates"
//	models:
//	  - models/methane.yaml
//	set_semantics: false
//	expect:
//	  events: 1
//	  repository:
//	    species: 4
//	  database:
//	    structure: 4
//
// Model paths are relative to the scenario file. Kind names accept the
// singular and plural spellings the CLI accepts.
//
// # Golden Files
//
// RunWithGolden renders the counts as canonical JSON and compares them with
// testdata/golden/<name>.golden. Run the tests with -update to regenerate.
package harness
