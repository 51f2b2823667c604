// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"os"
	"time"

	entrypoint "github.com/louisbranch/liarsdice/internal/platform/cmd"
	"github.com/louisbranch/liarsdice/internal/services/mcp/domain"
	"github.com/louisbranch/liarsdice/internal/services/mcp/service"
	tournamentapp "github.com/louisbranch/liarsdice/internal/services/tournament/app"
)

// Config holds MCP command configuration.
type Config struct {
	Transport      string        `env:"LIARSDICE_MCP_TRANSPORT"   envDefault:"stdio"`
	HTTPAddr       string        `env:"LIARSDICE_MCP_HTTP_ADDR"   envDefault:"localhost:8081"`
	DBPath         string        `env:"LIARSDICE_DB_PATH"`
	DecisionBudget time.Duration `env:"LIARSDICE_DECISION_BUDGET" envDefault:"200ms"`
	AllowExec      bool          `env:"LIARSDICE_MCP_ALLOW_EXEC"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database for results and high scores")
	fs.DurationVar(&cfg.DecisionBudget, "decision-budget", cfg.DecisionBudget, "Wall-clock limit of one agent decision")
	fs.BoolVar(&cfg.AllowExec, "allow-exec", cfg.AllowExec, "Allow exec: agents in tournament_run")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		store, closeStore, err := tournamentapp.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer closeStore()

		return service.Serve(ctx, service.Config{
			Transport: cfg.Transport,
			HTTPAddr:  cfg.HTTPAddr,
			Deps: domain.Deps{
				Store:          store,
				DecisionBudget: cfg.DecisionBudget,
				AgentStderr:    os.Stderr,
				AllowExec:      cfg.AllowExec,
			},
		})
	})
}
