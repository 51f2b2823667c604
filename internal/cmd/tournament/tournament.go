// Package tournament parses tournament command flags and runs one
// tournament.
package tournament

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/louisbranch/liarsdice/internal/agent/roster"
	entrypoint "github.com/louisbranch/liarsdice/internal/platform/cmd"
	"github.com/louisbranch/liarsdice/internal/platform/i18n"
	tournamentapp "github.com/louisbranch/liarsdice/internal/services/tournament/app"
	"github.com/louisbranch/liarsdice/internal/tournament"
)

// Config holds tournament command configuration.
type Config struct {
	Agents         string        `env:"LIARSDICE_AGENTS"          envDefault:"baseline,bayesian,aggressive"`
	Rounds         int           `env:"LIARSDICE_ROUNDS"          envDefault:"50"`
	Seed           int64         `env:"LIARSDICE_SEED"            envDefault:"12345"`
	MaxPlayers     int           `env:"LIARSDICE_MAX_PLAYERS"     envDefault:"6"`
	StartingDice   int           `env:"LIARSDICE_STARTING_DICE"   envDefault:"5"`
	Workers        int           `env:"LIARSDICE_WORKERS"         envDefault:"0"`
	DecisionBudget time.Duration `env:"LIARSDICE_DECISION_BUDGET" envDefault:"200ms"`
	TurnGuard      int           `env:"LIARSDICE_TURN_GUARD"      envDefault:"200"`
	HistoryWindow  int           `env:"LIARSDICE_HISTORY_WINDOW"  envDefault:"200"`
	DBPath         string        `env:"LIARSDICE_DB_PATH"`
	Locale         string        `env:"LIARSDICE_LOCALE"          envDefault:"en"`
	Quiet          bool          `env:"LIARSDICE_QUIET"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Agents, "agents", cfg.Agents, "Comma separated agent specs: "+agentHelp())
	fs.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "Number of rounds")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Tournament seed (0 draws a random seed)")
	fs.IntVar(&cfg.MaxPlayers, "max-players", cfg.MaxPlayers, "Maximum players per match")
	fs.IntVar(&cfg.StartingDice, "dice", cfg.StartingDice, "Dice per player at the start of a match")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent matches (0 uses one per CPU)")
	fs.DurationVar(&cfg.DecisionBudget, "decision-budget", cfg.DecisionBudget, "Wall-clock limit of one agent decision")
	fs.IntVar(&cfg.TurnGuard, "turn-guard", cfg.TurnGuard, "Maximum actions in one hand")
	fs.IntVar(&cfg.HistoryWindow, "history-window", cfg.HistoryWindow, "History events sent with each decision")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database for results and high scores (empty disables persistence)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Report locale")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Suppress progress output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func agentHelp() string {
	return fmt.Sprintf("%v, lua:<path>, exec:<command>", roster.New().Names())
}

// Run plays the tournament and prints the report to stdout.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTournament, func(ctx context.Context) error {
		return run(ctx, cfg, os.Stdout)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	store, closeStore, err := tournamentapp.OpenStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeStore()

	rcfg := tournamentapp.RuntimeConfig{
		Agents:         roster.SplitList(cfg.Agents),
		Rounds:         cfg.Rounds,
		Seed:           cfg.Seed,
		MaxPlayers:     cfg.MaxPlayers,
		StartingDice:   cfg.StartingDice,
		Workers:        cfg.Workers,
		DecisionBudget: cfg.DecisionBudget,
		TurnGuard:      cfg.TurnGuard,
		HistoryWindow:  cfg.HistoryWindow,
		Logger:         log.Default(),
		AgentStderr:    os.Stderr,
	}
	if !cfg.Quiet {
		rcfg.Progress = progressLogger(log.Default())
	}
	outcome, err := tournamentapp.Execute(ctx, rcfg, store)
	if err != nil {
		return err
	}
	if err := tournament.Render(out, outcome.Report, outcome.RunID, cfg.Locale); err != nil {
		return err
	}
	p := i18n.Printer(cfg.Locale)
	for _, name := range outcome.Improved {
		if s, ok := outcome.Report.Standing(name); ok {
			p.Fprintf(out, "report.highscore", name, s.AvgPlacementScore())
			fmt.Fprintln(out)
		}
	}
	return nil
}

// progressLogger logs every tenth of the schedule.
func progressLogger(logger *log.Logger) func(done, total int) {
	return func(done, total int) {
		step := max(total/10, 1)
		if done%step == 0 || done == total {
			logger.Printf("progress: %d/%d matches", done, total)
		}
	}
}
