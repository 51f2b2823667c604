// Package sqlite provides a SQLite-backed tournament result store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/liarsdice/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/liarsdice/internal/storage"
	"github.com/louisbranch/liarsdice/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists tournament results in SQLite.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

var (
	_ storage.ResultStore = (*Store)(nil)
	_ storage.FaultStore  = (*Store)(nil)
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite result store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, clock: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// SaveRun inserts the run with its standings and raises high scores in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, run storage.Run) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	run.ID = strings.TrimSpace(run.ID)
	if run.ID == "" {
		return nil, fmt.Errorf("run id is required")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = s.now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, seed, rounds, matches, max_players, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.Rounds, run.Matches, run.MaxPlayers,
		toMillis(run.StartedAt), toMillis(run.FinishedAt),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	var improved []string
	for _, st := range run.Standings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_standings (
			   run_id, position, agent, matches_played, wins, win_pct,
			   avg_placement_score, avg_finish_rank, liar_call_accuracy,
			   illegal_actions, dice_lost, faults
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, st.Position, st.Agent, st.MatchesPlayed, st.Wins, st.WinPct,
			st.AvgPlacementScore, st.AvgFinishRank, st.LiarCallAccuracy,
			st.IllegalActions, st.DiceLost, st.Faults,
		); err != nil {
			return nil, fmt.Errorf("insert standing %s: %w", st.Agent, err)
		}

		// Only a strictly better score replaces the stored one.
		res, err := tx.ExecContext(ctx,
			`INSERT INTO high_scores (agent, score, run_id, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(agent) DO UPDATE SET
			   score = excluded.score,
			   run_id = excluded.run_id,
			   updated_at = excluded.updated_at
			 WHERE excluded.score > high_scores.score`,
			st.Agent, st.AvgPlacementScore, run.ID, toMillis(run.FinishedAt),
		)
		if err != nil {
			return nil, fmt.Errorf("update high score %s: %w", st.Agent, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			improved = append(improved, st.Agent)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save run: %w", err)
	}
	return improved, nil
}

// GetRun returns one run with its standings.
func (s *Store) GetRun(ctx context.Context, id string) (storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return storage.Run{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Run{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Run{}, fmt.Errorf("run id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, seed, rounds, matches, max_players, started_at, finished_at
		   FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Run{}, storage.ErrNotFound
		}
		return storage.Run{}, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT position, agent, matches_played, wins, win_pct,
		        avg_placement_score, avg_finish_rank, liar_call_accuracy,
		        illegal_actions, dice_lost, faults
		   FROM run_standings
		  WHERE run_id = ?
		  ORDER BY position`, id)
	if err != nil {
		return storage.Run{}, fmt.Errorf("list standings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st storage.Standing
		if err := rows.Scan(
			&st.Position, &st.Agent, &st.MatchesPlayed, &st.Wins, &st.WinPct,
			&st.AvgPlacementScore, &st.AvgFinishRank, &st.LiarCallAccuracy,
			&st.IllegalActions, &st.DiceLost, &st.Faults,
		); err != nil {
			return storage.Run{}, fmt.Errorf("scan standing: %w", err)
		}
		run.Standings = append(run.Standings, st)
	}
	if err := rows.Err(); err != nil {
		return storage.Run{}, fmt.Errorf("iterate standings: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recently finished runs, newest first, without
// their standings.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, seed, rounds, matches, max_players, started_at, finished_at
		   FROM runs
		  ORDER BY finished_at DESC, id
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var runs []storage.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ListHighScores returns high scores, best first.
func (s *Store) ListHighScores(ctx context.Context, limit int) ([]storage.HighScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT agent, score, run_id, updated_at
		   FROM high_scores
		  ORDER BY score DESC, agent
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list high scores: %w", err)
	}
	defer rows.Close()
	var scores []storage.HighScore
	for rows.Next() {
		var hs storage.HighScore
		var updatedAt int64
		if err := rows.Scan(&hs.Agent, &hs.Score, &hs.RunID, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan high score: %w", err)
		}
		hs.UpdatedAt = fromMillis(updatedAt)
		scores = append(scores, hs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate high scores: %w", err)
	}
	return scores, nil
}

// AppendFaultEvent records one agent fault.
func (s *Store) AppendFaultEvent(ctx context.Context, evt storage.FaultEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.Agent) == "" {
		return fmt.Errorf("agent is required")
	}
	if strings.TrimSpace(evt.Kind) == "" {
		return fmt.Errorf("fault kind is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO fault_events (timestamp, run_id, agent, kind, round, grp, detail, attributes_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		toMillis(evt.Timestamp), evt.RunID, evt.Agent, evt.Kind, evt.Round, evt.Group, evt.Detail, evt.AttributesJSON,
	)
	if err != nil {
		return fmt.Errorf("append fault event: %w", err)
	}
	return nil
}

// ListFaultEvents returns the faults of one run in insertion order.
func (s *Store) ListFaultEvents(ctx context.Context, runID string) ([]storage.FaultEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT timestamp, run_id, agent, kind, round, grp, detail, attributes_json
		   FROM fault_events
		  WHERE run_id = ?
		  ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list fault events: %w", err)
	}
	defer rows.Close()
	var events []storage.FaultEvent
	for rows.Next() {
		var evt storage.FaultEvent
		var ts int64
		if err := rows.Scan(&ts, &evt.RunID, &evt.Agent, &evt.Kind, &evt.Round, &evt.Group, &evt.Detail, &evt.AttributesJSON); err != nil {
			return nil, fmt.Errorf("scan fault event: %w", err)
		}
		evt.Timestamp = fromMillis(ts)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fault events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (storage.Run, error) {
	var run storage.Run
	var startedAt, finishedAt int64
	if err := row.Scan(&run.ID, &run.Seed, &run.Rounds, &run.Matches, &run.MaxPlayers, &startedAt, &finishedAt); err != nil {
		return storage.Run{}, err
	}
	run.StartedAt = fromMillis(startedAt)
	run.FinishedAt = fromMillis(finishedAt)
	return run, nil
}
