// Package app wires the roster, scheduler, storage and report together for
// the tournament command and the MCP tools.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/liarsdice/internal/agent/roster"
	"github.com/louisbranch/liarsdice/internal/platform/id"
	"github.com/louisbranch/liarsdice/internal/random"
	"github.com/louisbranch/liarsdice/internal/storage"
	"github.com/louisbranch/liarsdice/internal/storage/sqlite"
	"github.com/louisbranch/liarsdice/internal/telemetry"
	"github.com/louisbranch/liarsdice/internal/tournament"
)

// Store persists runs, high scores and fault events.
type Store interface {
	storage.ResultStore
	storage.FaultStore
}

// RuntimeConfig controls one tournament run.
type RuntimeConfig struct {
	Agents         []string
	Rounds         int
	Seed           int64
	MaxPlayers     int
	StartingDice   int
	Workers        int
	DecisionBudget time.Duration
	TurnGuard      int
	HistoryWindow  int
	Logger         *log.Logger
	// AgentStderr receives the standard error of exec agents.
	AgentStderr io.Writer
	Progress    func(done, total int)
}

// Outcome is a finished run.
type Outcome struct {
	RunID  string
	Report tournament.Report
	// Improved lists agents whose persisted high score went up.
	Improved []string
}

// Execute resolves the roster, plays the tournament and, when store is not
// nil, persists the run and its fault events. A zero seed draws a random
// one.
func Execute(ctx context.Context, cfg RuntimeConfig, store Store) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	entries, err := roster.New(roster.WithStderr(cfg.AgentStderr)).Resolve(cfg.Agents)
	if err != nil {
		return Outcome{}, err
	}
	if cfg.Seed == 0 {
		seed, err := random.NewSeed()
		if err != nil {
			return Outcome{}, err
		}
		cfg.Seed = seed
	}
	runID, err := id.NewID()
	if err != nil {
		return Outcome{}, err
	}

	tcfg := tournament.Config{
		Rounds:         cfg.Rounds,
		Seed:           cfg.Seed,
		MaxPlayers:     cfg.MaxPlayers,
		Workers:        cfg.Workers,
		StartingDice:   cfg.StartingDice,
		DecisionBudget: cfg.DecisionBudget,
		TurnGuard:      cfg.TurnGuard,
		HistoryWindow:  cfg.HistoryWindow,
		Logger:         cfg.Logger,
		Progress:       cfg.Progress,
	}
	if store != nil {
		tcfg.Faults = telemetry.NewEmitter(store, runID)
	}
	scheduler, err := tournament.New(roster.Factories(entries), tcfg)
	if err != nil {
		return Outcome{}, err
	}
	report, err := scheduler.Run(ctx)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{RunID: runID, Report: report}
	if store != nil {
		improved, err := store.SaveRun(ctx, tournament.ToRun(report, runID))
		if err != nil {
			return Outcome{}, fmt.Errorf("save run: %w", err)
		}
		out.Improved = improved
	}
	return out, nil
}

// OpenStore opens the SQLite store at path, creating its directory. An
// empty path returns a nil store and a no-op closer.
func OpenStore(path string) (Store, func(), error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open tournament store: %w", err)
	}
	closer := func() {
		if err := store.Close(); err != nil {
			log.Printf("close tournament store: %v", err)
		}
	}
	return store, closer, nil
}
