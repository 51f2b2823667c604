package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// Run is one finished tournament.
type Run struct {
	ID         string
	Seed       int64
	Rounds     int
	Matches    int
	MaxPlayers int
	StartedAt  time.Time
	FinishedAt time.Time
	Standings  []Standing
}

// Standing is one agent's aggregate result within a run, in report order.
type Standing struct {
	Position          int
	Agent             string
	MatchesPlayed     int
	Wins              int
	WinPct            float64
	AvgPlacementScore float64
	AvgFinishRank     float64
	LiarCallAccuracy  float64
	IllegalActions    int
	DiceLost          int
	Faults            int
}

// HighScore is the best average placement score an agent has reached.
type HighScore struct {
	Agent     string
	Score     float64
	RunID     string
	UpdatedAt time.Time
}

// FaultEvent is one decision fault raised by an agent adapter.
type FaultEvent struct {
	Timestamp      time.Time
	RunID          string
	Agent          string
	Kind           string
	Round          int
	Group          int
	Detail         string
	AttributesJSON []byte
}

// ResultStore persists tournament runs and high scores.
type ResultStore interface {
	// SaveRun stores the run and raises each agent's high score when the
	// run's average placement score beats it. It returns the agents whose
	// high score changed.
	SaveRun(ctx context.Context, run Run) ([]string, error)
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListHighScores(ctx context.Context, limit int) ([]HighScore, error)
}

// FaultStore persists agent fault events for later analysis.
type FaultStore interface {
	AppendFaultEvent(ctx context.Context, evt FaultEvent) error
	ListFaultEvents(ctx context.Context, runID string) ([]FaultEvent, error)
}
