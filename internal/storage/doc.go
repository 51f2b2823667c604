// Package storage defines the persistence interfaces for tournament results.
//
// It stores finished tournament runs with their per-agent standings, the best
// average placement score each agent has reached, and decision fault events.
// Implementations live in subpackages (see storage/sqlite).
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
package storage
