package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/liarsdice/internal/agent/roster"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
	"github.com/louisbranch/liarsdice/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100

	// HighScoresURI addresses the high score resource.
	HighScoresURI = "liarsdice://highscores"
)

var errStoreUnavailable = apperrors.New(apperrors.CodeStoreUnavailable, "no results store configured")

// LeaderboardInput represents the MCP tool input for the leaderboard.
type LeaderboardInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries per list (default 10, max 100)"`
}

// HighScoreResult is one agent's best average placement score.
type HighScoreResult struct {
	Agent     string  `json:"agent" jsonschema:"agent name"`
	Score     float64 `json:"score" jsonschema:"best average placement score"`
	RunID     string  `json:"run_id" jsonschema:"run that set the score"`
	UpdatedAt string  `json:"updated_at" jsonschema:"RFC3339 time the score was set"`
}

// RunSummary describes a stored run.
type RunSummary struct {
	RunID      string `json:"run_id" jsonschema:"identifier of the run"`
	Seed       int64  `json:"seed" jsonschema:"seed used by the run"`
	Rounds     int    `json:"rounds" jsonschema:"rounds played"`
	Matches    int    `json:"matches" jsonschema:"matches played"`
	FinishedAt string `json:"finished_at" jsonschema:"RFC3339 finish time"`
}

// LeaderboardResult represents the MCP tool output for the leaderboard.
type LeaderboardResult struct {
	HighScores []HighScoreResult `json:"high_scores" jsonschema:"best scores ordered highest first"`
	RecentRuns []RunSummary      `json:"recent_runs" jsonschema:"latest runs ordered newest first"`
}

// RunGetInput represents the MCP tool input for reading a stored run.
type RunGetInput struct {
	RunID string `json:"run_id" jsonschema:"identifier of the run"`
}

// FaultResult is one stored decision fault.
type FaultResult struct {
	Agent  string `json:"agent" jsonschema:"agent that faulted"`
	Kind   string `json:"kind" jsonschema:"fault kind"`
	Round  int    `json:"round" jsonschema:"round of the match"`
	Group  int    `json:"group" jsonschema:"group of the match"`
	Detail string `json:"detail,omitempty" jsonschema:"fault detail"`
}

// RunGetResult represents the MCP tool output for a stored run.
type RunGetResult struct {
	Run       RunSummary       `json:"run" jsonschema:"run summary"`
	Standings []StandingResult `json:"standings" jsonschema:"agents ordered best first"`
	Faults    []FaultResult    `json:"faults,omitempty" jsonschema:"decision faults of the run"`
}

// AgentsListInput represents the MCP tool input for listing agents.
type AgentsListInput struct{}

// AgentsListResult represents the MCP tool output for listing agents.
type AgentsListResult struct {
	Agents []string `json:"agents" jsonschema:"builtin strategy names and bundled lua:<name> scripts"`
}

// LeaderboardTool defines the MCP tool schema for the leaderboard.
func LeaderboardTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "leaderboard",
		Description: "Lists agent high scores and the most recent stored tournament runs",
	}
}

// RunGetTool defines the MCP tool schema for reading a stored run.
func RunGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "run_get",
		Description: "Returns the standings and faults of a stored tournament run",
	}
}

// AgentsListTool defines the MCP tool schema for listing agents.
func AgentsListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "agents_list",
		Description: "Lists the agent names accepted by tournament_run",
	}
}

// LeaderboardHandler reads high scores and recent runs from the store.
func LeaderboardHandler(store storage.ResultStore) mcp.ToolHandlerFor[LeaderboardInput, LeaderboardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LeaderboardInput) (*mcp.CallToolResult, LeaderboardResult, error) {
		if store == nil {
			return nil, LeaderboardResult{}, errStoreUnavailable
		}
		limit := clampLimit(input.Limit)
		scores, err := store.ListHighScores(ctx, limit)
		if err != nil {
			return nil, LeaderboardResult{}, fmt.Errorf("list high scores: %w", err)
		}
		runs, err := store.ListRuns(ctx, limit)
		if err != nil {
			return nil, LeaderboardResult{}, fmt.Errorf("list runs: %w", err)
		}
		result := LeaderboardResult{
			HighScores: highScoreResults(scores),
			RecentRuns: make([]RunSummary, len(runs)),
		}
		for i, run := range runs {
			result.RecentRuns[i] = runSummary(run)
		}
		return nil, result, nil
	}
}

// RunGetHandler reads one stored run with its fault events.
func RunGetHandler(store Store) mcp.ToolHandlerFor[RunGetInput, RunGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RunGetInput) (*mcp.CallToolResult, RunGetResult, error) {
		if store == nil {
			return nil, RunGetResult{}, errStoreUnavailable
		}
		runID := strings.TrimSpace(input.RunID)
		if runID == "" {
			return nil, RunGetResult{}, fmt.Errorf("run_id is required")
		}
		run, err := store.GetRun(ctx, runID)
		if err != nil {
			return nil, RunGetResult{}, err
		}
		events, err := store.ListFaultEvents(ctx, runID)
		if err != nil {
			return nil, RunGetResult{}, fmt.Errorf("list fault events: %w", err)
		}
		result := RunGetResult{
			Run:       runSummary(run),
			Standings: standingResults(run.Standings),
		}
		for _, evt := range events {
			result.Faults = append(result.Faults, FaultResult{
				Agent:  evt.Agent,
				Kind:   evt.Kind,
				Round:  evt.Round,
				Group:  evt.Group,
				Detail: evt.Detail,
			})
		}
		return nil, result, nil
	}
}

// Store is the read side of the results store.
type Store interface {
	storage.ResultStore
	ListFaultEvents(ctx context.Context, runID string) ([]storage.FaultEvent, error)
}

// AgentsListHandler lists builtin and bundled agents.
func AgentsListHandler() mcp.ToolHandlerFor[AgentsListInput, AgentsListResult] {
	return func(context.Context, *mcp.CallToolRequest, AgentsListInput) (*mcp.CallToolResult, AgentsListResult, error) {
		return nil, AgentsListResult{Agents: roster.New().Names()}, nil
	}
}

// HighScoresResource defines the MCP resource listing high scores.
func HighScoresResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "highscores",
		Title:       "Agent high scores",
		Description: "Best average placement score per agent",
		MIMEType:    "application/json",
		URI:         HighScoresURI,
	}
}

// HighScoresResourceHandler renders the high scores as JSON.
func HighScoresResourceHandler(store storage.ResultStore) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if store == nil {
			return nil, errStoreUnavailable
		}
		uri := HighScoresURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		if uri != HighScoresURI {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		scores, err := store.ListHighScores(ctx, maxListLimit)
		if err != nil {
			return nil, fmt.Errorf("list high scores: %w", err)
		}
		payload, err := json.MarshalIndent(struct {
			HighScores []HighScoreResult `json:"high_scores"`
		}{HighScores: highScoreResults(scores)}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal high scores: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(payload),
			}},
		}, nil
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}

func highScoreResults(scores []storage.HighScore) []HighScoreResult {
	out := make([]HighScoreResult, len(scores))
	for i, s := range scores {
		out[i] = HighScoreResult{
			Agent:     s.Agent,
			Score:     s.Score,
			RunID:     s.RunID,
			UpdatedAt: formatTime(s.UpdatedAt),
		}
	}
	return out
}

func runSummary(run storage.Run) RunSummary {
	return RunSummary{
		RunID:      run.ID,
		Seed:       run.Seed,
		Rounds:     run.Rounds,
		Matches:    run.Matches,
		FinishedAt: formatTime(run.FinishedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
