// Package game implements the liar's dice rules engine: bids and actions,
// the per-hand bidding state machine, the match controller that repeats
// hands until one player remains, and tie-aware placement scoring.
//
// Everything in this package is deterministic given a match seed and the
// sequence of actions returned by the players' deciders. The package never
// starts goroutines; a Match is owned by exactly one caller.
package game
