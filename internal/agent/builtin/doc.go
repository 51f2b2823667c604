// Package builtin provides the compiled policy strategies shipped with the
// tournament: probability thresholds, belief tracking, position-adaptive
// risk, Monte Carlo sampling, and a seeded bluffer.
package builtin
