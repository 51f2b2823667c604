// Package agent invokes policy strategies on behalf of seated players.
//
// A Strategy is the pluggable decision code. An Adapter wraps one strategy
// for one player in one match: it owns the player's Context, enforces the
// per-decision wall-clock budget, and turns every failure (timeout, panic,
// returned error, malformed action, call still in flight) into the fallback
// liar call. Faults are counted and reported, never propagated to the engine.
//
// # Context lifetime
//
// A Context is created when the adapter is built at match start and closed
// when the match ends. It survives every hand of the match and is never
// shared with another match or another player.
package agent
