package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/liarsdice/internal/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSaveGetRunRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	finished := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	run := storage.Run{
		ID:         "run-1",
		Seed:       12345,
		Rounds:     50,
		Matches:    50,
		MaxPlayers: 6,
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
		Standings: []storage.Standing{
			{Position: 1, Agent: "bayesian", MatchesPlayed: 50, Wins: 22, WinPct: 44, AvgPlacementScore: 61.2, AvgFinishRank: 1.9, LiarCallAccuracy: 0.58},
			{Position: 2, Agent: "baseline", MatchesPlayed: 50, Wins: 18, WinPct: 36, AvgPlacementScore: 55.4, AvgFinishRank: 2.1, Faults: 1},
		},
	}
	improved, err := store.SaveRun(context.Background(), run)
	if err != nil {
		t.Fatalf("save run: %v", err)
	}
	if len(improved) != 2 {
		t.Fatalf("expected both agents to set a first high score, got %v", improved)
	}

	got, err := store.GetRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Seed != run.Seed || got.Rounds != run.Rounds || got.MaxPlayers != 6 {
		t.Fatalf("run fields = %+v", got)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Fatalf("finished_at = %v, want %v", got.FinishedAt, finished)
	}
	if len(got.Standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(got.Standings))
	}
	if got.Standings[0].Agent != "bayesian" || got.Standings[1].Faults != 1 {
		t.Fatalf("standings = %+v", got.Standings)
	}
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetRun(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSaveRunRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	run := storage.Run{ID: "dup", Rounds: 1}
	if _, err := store.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if _, err := store.SaveRun(context.Background(), run); err == nil {
		t.Fatal("expected duplicate run error")
	}
}

func TestHighScoreOnlyImproves(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	save := func(id string, score float64) []string {
		t.Helper()
		improved, err := store.SaveRun(ctx, storage.Run{
			ID:        id,
			Standings: []storage.Standing{{Position: 1, Agent: "aggressive", AvgPlacementScore: score}},
		})
		if err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
		return improved
	}

	if got := save("r1", 40); len(got) != 1 {
		t.Fatalf("first score should be recorded, got %v", got)
	}
	if got := save("r2", 35); len(got) != 0 {
		t.Fatalf("lower score should not replace, got %v", got)
	}
	if got := save("r3", 40); len(got) != 0 {
		t.Fatalf("equal score should not replace, got %v", got)
	}
	if got := save("r4", 47.5); len(got) != 1 {
		t.Fatalf("higher score should replace, got %v", got)
	}

	scores, err := store.ListHighScores(ctx, 10)
	if err != nil {
		t.Fatalf("list high scores: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 47.5 || scores[0].RunID != "r4" {
		t.Fatalf("high scores = %+v", scores)
	}
}

func TestListHighScoresOrdersBestFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.SaveRun(context.Background(), storage.Run{
		ID: "r1",
		Standings: []storage.Standing{
			{Position: 2, Agent: "baseline", AvgPlacementScore: 30},
			{Position: 1, Agent: "bayesian", AvgPlacementScore: 60},
			{Position: 3, Agent: "aggressive", AvgPlacementScore: 10},
		},
	})
	if err != nil {
		t.Fatalf("save run: %v", err)
	}
	scores, err := store.ListHighScores(context.Background(), 2)
	if err != nil {
		t.Fatalf("list high scores: %v", err)
	}
	if len(scores) != 2 || scores[0].Agent != "bayesian" || scores[1].Agent != "baseline" {
		t.Fatalf("high scores = %+v", scores)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if _, err := store.SaveRun(context.Background(), storage.Run{ID: id, FinishedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "new" || runs[2].ID != "old" {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestFaultEventsRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	clockTime := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return clockTime }

	events := []storage.FaultEvent{
		{RunID: "r1", Agent: "lua:slow", Kind: "timeout", Round: 3, Group: 1, Detail: "decision exceeded 200ms"},
		{RunID: "r1", Agent: "exec:bot", Kind: "malformed", Round: 4, AttributesJSON: []byte(`{"raw":"{}"}`)},
		{RunID: "r2", Agent: "baseline", Kind: "panic"},
	}
	for _, evt := range events {
		if err := store.AppendFaultEvent(ctx, evt); err != nil {
			t.Fatalf("append fault: %v", err)
		}
	}

	got, err := store.ListFaultEvents(ctx, "r1")
	if err != nil {
		t.Fatalf("list faults: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 faults, got %d", len(got))
	}
	if got[0].Kind != "timeout" || got[0].Round != 3 || got[0].Group != 1 {
		t.Fatalf("first fault = %+v", got[0])
	}
	if !got[0].Timestamp.Equal(clockTime) {
		t.Fatalf("timestamp = %v, want %v", got[0].Timestamp, clockTime)
	}
	if string(got[1].AttributesJSON) != `{"raw":"{}"}` {
		t.Fatalf("attributes = %s", got[1].AttributesJSON)
	}
}

func TestAppendFaultEventValidates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.AppendFaultEvent(context.Background(), storage.FaultEvent{Kind: "timeout"}); err == nil {
		t.Fatal("expected missing agent error")
	}
	if err := store.AppendFaultEvent(context.Background(), storage.FaultEvent{Agent: "a"}); err == nil {
		t.Fatal("expected missing kind error")
	}
}

func TestNilStoreReportsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.GetRun(context.Background(), "x"); err == nil {
		t.Fatal("expected not configured error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.SaveRun(ctx, storage.Run{ID: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
