package tournament

import (
	"log"
	"runtime"
	"strconv"
	"time"

	"github.com/louisbranch/liarsdice/internal/game"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
	"github.com/louisbranch/liarsdice/internal/platform/timeouts"
	"github.com/louisbranch/liarsdice/internal/telemetry"
	"go.opentelemetry.io/otel/metric"
)

// Defaults applied to zero Config fields.
const (
	DefaultRounds     = 50
	DefaultMaxPlayers = 6
)

// Config tunes a tournament.
type Config struct {
	Rounds     int
	Seed       int64
	MaxPlayers int
	// Workers bounds concurrently running matches. Zero uses one per CPU.
	Workers        int
	StartingDice   int
	DecisionBudget time.Duration
	TurnGuard      int
	HistoryWindow  int
	Placement      game.PlacementTable
	Logger         *log.Logger
	// Faults receives every decision fault, in merge order.
	Faults *telemetry.Emitter
	// Progress is called from worker goroutines after each match.
	Progress func(done, total int)
	// MeterProvider backs the tournament and agent instruments. Nil selects
	// the global provider.
	MeterProvider metric.MeterProvider
}

func (c Config) withDefaults() Config {
	if c.Rounds == 0 {
		c.Rounds = DefaultRounds
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = DefaultMaxPlayers
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.StartingDice == 0 {
		c.StartingDice = game.DefaultStartingDice
	}
	if c.DecisionBudget <= 0 {
		c.DecisionBudget = timeouts.Decision
	}
	if c.Placement == nil {
		c.Placement = game.DefaultPlacementTable
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// Validate checks the settings that would make a tournament meaningless.
// Zero fields are filled with defaults by New before validation.
func (c Config) Validate(agents int) error {
	if c.Rounds < 1 {
		return apperrors.WithMetadata(apperrors.CodeTournamentInvalidRounds, "rounds must be positive",
			map[string]string{"Rounds": strconv.Itoa(c.Rounds)})
	}
	if c.MaxPlayers < 2 {
		return apperrors.WithMetadata(apperrors.CodeTournamentInvalidMaxPlayers, "max players below two",
			map[string]string{"MaxPlayers": strconv.Itoa(c.MaxPlayers)})
	}
	if c.StartingDice < 0 {
		return apperrors.WithMetadata(apperrors.CodeTournamentInvalidDice, "starting dice must not be negative",
			map[string]string{"Dice": strconv.Itoa(c.StartingDice)})
	}
	if agents < 2 {
		return apperrors.WithMetadata(apperrors.CodeTournamentTooFewAgents, "too few agents",
			map[string]string{"Agents": strconv.Itoa(agents)})
	}
	return nil
}
