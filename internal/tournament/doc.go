// Package tournament schedules rounds of independent matches among a roster
// of agents and aggregates their results.
//
// Every round shuffles the roster with a seeded stream and splits it into
// balanced groups. Each group plays one match. Matches share no mutable
// state, so they run on a bounded worker pool; each job writes its own
// result slot and the slots are merged in (round, group) order once all
// jobs finish, which keeps reports identical for a given seed regardless of
// the number of workers.
package tournament
