package domain

import (
	"context"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/louisbranch/liarsdice/internal/agent/roster"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
	"github.com/louisbranch/liarsdice/internal/services/tournament/app"
	"github.com/louisbranch/liarsdice/internal/storage"
	"github.com/louisbranch/liarsdice/internal/tournament"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// MaxToolRounds bounds a tournament started through MCP.
	MaxToolRounds = 500
	// DefaultToolRounds is used when the caller leaves rounds unset.
	DefaultToolRounds = 20
)

// Deps holds what the tool handlers need from the server.
type Deps struct {
	// Store is optional. Without it runs are not persisted and the
	// leaderboard reports STORE_UNAVAILABLE.
	Store          app.Store
	DecisionBudget time.Duration
	AgentStderr    io.Writer
	// AllowExec permits exec: agent specs in tournament_run.
	AllowExec bool
}

// TournamentRunInput represents the MCP tool input for a tournament run.
type TournamentRunInput struct {
	Agents       []string `json:"agents" jsonschema:"agent specs: builtin names or lua:<script>"`
	Rounds       int      `json:"rounds,omitempty" jsonschema:"number of rounds (default 20)"`
	Seed         int64    `json:"seed,omitempty" jsonschema:"tournament seed; 0 draws a random seed"`
	MaxPlayers   int      `json:"max_players,omitempty" jsonschema:"maximum players per match (default 6)"`
	StartingDice int      `json:"starting_dice,omitempty" jsonschema:"dice per player at the start of a match (default 5)"`
}

// StandingResult is one agent's row in a tournament report.
type StandingResult struct {
	Position          int     `json:"position" jsonschema:"1-based position in the ranking"`
	Agent             string  `json:"agent" jsonschema:"agent name"`
	MatchesPlayed     int     `json:"matches_played" jsonschema:"matches the agent played"`
	Wins              int     `json:"wins" jsonschema:"matches won"`
	WinPct            float64 `json:"win_pct" jsonschema:"wins per match as a percentage"`
	AvgPlacementScore float64 `json:"avg_placement_score" jsonschema:"placement points per match"`
	AvgFinishRank     float64 `json:"avg_finish_rank" jsonschema:"mean finishing rank"`
	LiarCallAccuracy  float64 `json:"liar_call_accuracy" jsonschema:"share of correct liar calls as a percentage"`
	IllegalActions    int     `json:"illegal_actions" jsonschema:"illegal actions made"`
	DiceLost          int     `json:"dice_lost" jsonschema:"dice lost in total"`
	Faults            int     `json:"faults" jsonschema:"decision faults raised"`
}

// TournamentRunResult represents the MCP tool output for a tournament run.
type TournamentRunResult struct {
	RunID      string           `json:"run_id" jsonschema:"identifier of the run"`
	Seed       int64            `json:"seed" jsonschema:"seed used by the run"`
	Rounds     int              `json:"rounds" jsonschema:"rounds played"`
	Matches    int              `json:"matches" jsonschema:"matches played"`
	TurnGuards int              `json:"turn_guards" jsonschema:"hands ended by the turn guard"`
	Persisted  bool             `json:"persisted" jsonschema:"whether the run was stored"`
	Improved   []string         `json:"improved,omitempty" jsonschema:"agents whose high score went up"`
	Standings  []StandingResult `json:"standings" jsonschema:"agents ordered best first"`
}

// TournamentRunTool defines the MCP tool schema for running a tournament.
func TournamentRunTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "tournament_run",
		Description: "Plays a liar's dice tournament between agents and returns the ranked standings",
	}
}

// TournamentRunHandler plays a tournament synchronously.
func TournamentRunHandler(deps Deps) mcp.ToolHandlerFor[TournamentRunInput, TournamentRunResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TournamentRunInput) (*mcp.CallToolResult, TournamentRunResult, error) {
		if input.Rounds == 0 {
			input.Rounds = DefaultToolRounds
		}
		if input.Rounds > MaxToolRounds {
			return nil, TournamentRunResult{}, apperrors.WithMetadata(
				apperrors.CodeLimitExceeded,
				"rounds exceeds the tool limit",
				map[string]string{"Field": "rounds", "Limit": strconv.Itoa(MaxToolRounds)},
			)
		}
		if !deps.AllowExec {
			for _, spec := range input.Agents {
				kind, err := roster.SpecKind(spec)
				if err != nil {
					return nil, TournamentRunResult{}, err
				}
				if kind == roster.KindExec {
					return nil, TournamentRunResult{}, apperrors.WithMetadata(
						apperrors.CodeRosterInvalidSpec,
						"exec agents are disabled on this server",
						map[string]string{"Spec": spec},
					)
				}
			}
		}

		outcome, err := app.Execute(ctx, app.RuntimeConfig{
			Agents:         input.Agents,
			Rounds:         input.Rounds,
			Seed:           input.Seed,
			MaxPlayers:     input.MaxPlayers,
			StartingDice:   input.StartingDice,
			DecisionBudget: deps.DecisionBudget,
			AgentStderr:    deps.AgentStderr,
			Logger:         log.New(io.Discard, "", 0),
		}, deps.Store)
		if err != nil {
			return nil, TournamentRunResult{}, err
		}

		run := tournament.ToRun(outcome.Report, outcome.RunID)
		return nil, TournamentRunResult{
			RunID:      outcome.RunID,
			Seed:       run.Seed,
			Rounds:     run.Rounds,
			Matches:    run.Matches,
			TurnGuards: outcome.Report.TurnGuards,
			Persisted:  deps.Store != nil,
			Improved:   outcome.Improved,
			Standings:  standingResults(run.Standings),
		}, nil
	}
}

func standingResults(standings []storage.Standing) []StandingResult {
	out := make([]StandingResult, len(standings))
	for i, s := range standings {
		out[i] = StandingResult{
			Position:          s.Position,
			Agent:             s.Agent,
			MatchesPlayed:     s.MatchesPlayed,
			Wins:              s.Wins,
			WinPct:            s.WinPct,
			AvgPlacementScore: s.AvgPlacementScore,
			AvgFinishRank:     s.AvgFinishRank,
			LiarCallAccuracy:  s.LiarCallAccuracy,
			IllegalActions:    s.IllegalActions,
			DiceLost:          s.DiceLost,
			Faults:            s.Faults,
		}
	}
	return out
}
