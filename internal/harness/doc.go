// Package harness runs YAML scenarios against the deterministic
// simulator. A scenario carries inline source, run parameters, and an
// expect clause; golden snapshots pin the lowered sequence and decoded
// values for regression coverage.
package harness
