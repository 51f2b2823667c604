package tournament

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/game"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
	"github.com/louisbranch/liarsdice/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "github.com/louisbranch/liarsdice/internal/tournament"

// Scheduler runs a tournament over a fixed roster.
type Scheduler struct {
	cfg       Config
	factories []agent.Factory
	names     []string
	tracer    trace.Tracer
	metrics   instruments
}

// New validates the configuration and roster. Factory names must be unique
// since they identify agents in the report.
func New(factories []agent.Factory, cfg Config) (*Scheduler, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(len(factories)); err != nil {
		return nil, err
	}
	names := make([]string, len(factories))
	seen := make(map[string]bool, len(factories))
	for i, f := range factories {
		if f == nil {
			return nil, apperrors.WithMetadata(apperrors.CodeAgentInvalidFactory, "agent factory is nil",
				map[string]string{"Agent": strconv.Itoa(i)})
		}
		name := strings.TrimSpace(f.Name())
		if name == "" || seen[name] {
			return nil, apperrors.WithMetadata(apperrors.CodeAgentNameConflict, "agent names must be unique",
				map[string]string{"Agent": name})
		}
		seen[name] = true
		names[i] = name
	}
	return &Scheduler{
		cfg:       cfg,
		factories: append([]agent.Factory(nil), factories...),
		names:     names,
		tracer:    otel.Tracer(instrumentationName),
		metrics:   newInstruments(cfg.MeterProvider),
	}, nil
}

// Agents returns the roster names in roster order.
func (s *Scheduler) Agents() []string {
	return append([]string(nil), s.names...)
}

// Jobs returns the full schedule.
func (s *Scheduler) Jobs() []Job {
	return Schedule(s.cfg.Seed, s.cfg.Rounds, len(s.factories), s.cfg.MaxPlayers)
}

// Run plays every scheduled match and aggregates the results. It stops at
// the first match that cannot be set up and returns ctx.Err() when ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) (Report, error) {
	jobs := s.Jobs()
	ctx, span := s.tracer.Start(ctx, "tournament.run", trace.WithAttributes(
		attribute.Int64("liarsdice.seed", s.cfg.Seed),
		attribute.Int("liarsdice.rounds", s.cfg.Rounds),
		attribute.Int("liarsdice.agents", len(s.names)),
		attribute.Int("liarsdice.matches", len(jobs)),
	))
	defer span.End()

	started := time.Now().UTC()
	results := make([]MatchResult, len(jobs))
	var done atomic.Int64

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Workers)
	for i, job := range jobs {
		group.Go(func() error {
			res, err := s.play(gctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			if s.cfg.Progress != nil {
				s.cfg.Progress(int(done.Add(1)), len(jobs))
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Report{}, ctxErr
		}
		return Report{}, err
	}

	acc := newAccumulator(s.names)
	for _, res := range results {
		acc.add(res)
		s.emitFaults(ctx, res)
	}
	return Report{
		Seed:       s.cfg.Seed,
		Rounds:     s.cfg.Rounds,
		MaxPlayers: s.cfg.MaxPlayers,
		Matches:    len(jobs),
		TurnGuards: acc.turnGuards,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Standings:  acc.standings(),
	}, nil
}

// play runs one job with fresh adapters for every seat.
func (s *Scheduler) play(ctx context.Context, job Job) (MatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "tournament.match", trace.WithAttributes(
		attribute.Int("liarsdice.round", job.Round),
		attribute.Int("liarsdice.group", job.Group),
		attribute.Int64("liarsdice.seed", job.Seed),
	))
	defer span.End()
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}

	res := MatchResult{
		Job:         job,
		Agents:      make([]string, 0, len(job.Seats)),
		FaultCounts: make(map[string]agent.FaultCounts, len(job.Seats)),
	}
	if sc := span.SpanContext(); sc.IsValid() {
		res.TraceID = sc.TraceID().String()
	}
	opts := agent.Options{
		Budget:        s.cfg.DecisionBudget,
		Logger:        s.cfg.Logger,
		OnFault:       func(f agent.Fault) { res.Faults = append(res.Faults, f) },
		MeterProvider: s.cfg.MeterProvider,
	}

	adapters := make([]*agent.Adapter, 0, len(job.Seats))
	defer func() {
		for _, a := range adapters {
			if err := a.Close(); err != nil {
				s.cfg.Logger.Printf("close agent %s: %v", a.Name(), err)
			}
		}
	}()
	seats := make([]game.Seat, 0, len(job.Seats))
	for _, idx := range job.Seats {
		name := s.names[idx]
		a, err := agent.NewAdapter(s.factories[idx], name, job.Seed, opts)
		if err != nil {
			return MatchResult{}, matchFailed(job, err)
		}
		adapters = append(adapters, a)
		seats = append(seats, game.Seat{ID: name, Decider: a})
		res.Agents = append(res.Agents, name)
	}

	m, err := game.NewMatch(job.Seed, seats, game.Config{
		StartingDice:  s.cfg.StartingDice,
		TurnGuard:     s.cfg.TurnGuard,
		HistoryWindow: s.cfg.HistoryWindow,
		Placement:     s.cfg.Placement,
		Logger:        s.cfg.Logger,
	})
	if err != nil {
		return MatchResult{}, matchFailed(job, err)
	}
	out, err := m.Play(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return MatchResult{}, ctxErr
		}
		return MatchResult{}, matchFailed(job, err)
	}
	res.Result = out
	for _, a := range adapters {
		res.FaultCounts[a.Name()] = a.Faults()
	}

	span.SetAttributes(
		attribute.String("liarsdice.winner", out.Winner),
		attribute.Int("liarsdice.hands", out.Hands),
		attribute.Int("liarsdice.faults", len(res.Faults)),
	)
	s.metrics.matchPlayed(ctx, out.TurnGuards)
	return res, nil
}

func (s *Scheduler) emitFaults(ctx context.Context, res MatchResult) {
	if s.cfg.Faults == nil {
		return
	}
	for _, f := range res.Faults {
		attrs, err := json.Marshal(map[string]any{
			"player_id": f.PlayerID,
			"seed":      f.Seed,
			"trace_id":  res.TraceID,
		})
		if err != nil {
			attrs = nil
		}
		err = s.cfg.Faults.Emit(ctx, storage.FaultEvent{
			Agent:          f.Agent,
			Kind:           string(f.Kind),
			Round:          res.Round,
			Group:          res.Group,
			Detail:         firstLine(f.Detail()),
			AttributesJSON: attrs,
		})
		if err != nil {
			s.cfg.Logger.Printf("record fault for %s: %v", f.Agent, err)
		}
	}
}

func matchFailed(job Job, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeTournamentMatchFailed,
		fmt.Sprintf("match %d/%d", job.Round, job.Group),
		map[string]string{"Round": strconv.Itoa(job.Round), "Group": strconv.Itoa(job.Group)},
		cause)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
