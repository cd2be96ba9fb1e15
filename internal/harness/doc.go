// Package harness runs conformance scenarios against the engine.
//
// A scenario is a YAML file naming a problem file, a strategy and a list of
// engine calls with their expected outcomes:
//
//	name: translation
//	description: a single-provider problem solves and validates
//	problem: ../problems/translation.cue
//	strategy: uniform
//	seed: 42
//	steps:
//	  - call: validate
//	    expect: {outcome: ok}
//	  - call: solve
//	    expect: {outcome: ok, bindings: 1}
//	assertions:
//	  - type: run_order
//	    operations: [validate, solve]
//
// Each scenario runs in a fresh in-memory run log with sequential run IDs, so
// the trace of recorded runs is deterministic and can be compared against
// golden files with RunWithGolden.
//
// Besides the registered strategies, scenarios may name the fixture
// strategies "none" (never finds a solution), "malformed" (returns bindings
// the engine must reject) and "failing" (always errors).
package harness
