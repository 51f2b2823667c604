// Package errors provides structured error handling with localized messages.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Roster errors
	CodeRosterEmpty         Code = "ROSTER_EMPTY"
	CodeRosterInvalidSpec   Code = "ROSTER_INVALID_SPEC"
	CodeAgentUnknown        Code = "AGENT_UNKNOWN"
	CodeAgentLoadFailed     Code = "AGENT_LOAD_FAILED"
	CodeAgentNameConflict   Code = "AGENT_NAME_CONFLICT"
	CodeAgentInvalidFactory Code = "AGENT_INVALID_FACTORY"

	// Tournament errors
	CodeTournamentInvalidRounds     Code = "TOURNAMENT_INVALID_ROUNDS"
	CodeTournamentInvalidMaxPlayers Code = "TOURNAMENT_INVALID_MAX_PLAYERS"
	CodeTournamentInvalidDice       Code = "TOURNAMENT_INVALID_DICE"
	CodeTournamentTooFewAgents      Code = "TOURNAMENT_TOO_FEW_AGENTS"
	CodeTournamentMatchFailed       Code = "TOURNAMENT_MATCH_FAILED"

	// Storage errors
	CodeNotFound         Code = "NOT_FOUND"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	// Request limits
	CodeLimitExceeded Code = "LIMIT_EXCEEDED"
)
