// Package harness runs the type-coverage matrix.
//
// A Plan is an ordered list of phases. Each phase covers a fixed list of
// categories, and each category runs in isolation:
//
//	Idle -> Running(category) -> Reported -> Idle ... -> Done
//
// A category builds its own container, checks it, and reports every
// CheckResult as it is produced. A failing check is data: the runner moves
// on. A construction or lifecycle defect halts the rest of that category
// only.
//
// # Plan Format
//
//	name: arrays
//	version: 1.0.0
//	description: "What this plan covers"
//	phases: [integers, floats, booleans, pointers, aggregates, enums, heap]
//	tolerances:
//	  float32: 1e-6
//	  float64: 1e-12
//
// Plans are decoded strictly (unknown fields are errors), the version must
// satisfy ^1, and the document is checked against a CUE schema generated
// from the phase registry.
//
// # Determinism
//
// Runs use a fresh logical clock and fresh containers, so running the same
// plan twice yields identical ordered results and the same fingerprint.
package harness
