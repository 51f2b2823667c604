package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"github.com/louisbranch/liarsdice/internal/game"
	"github.com/louisbranch/liarsdice/internal/platform/timeouts"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrDecisionTimeout is the fault cause of a decision over budget.
	ErrDecisionTimeout = errors.New("decision budget exceeded")
	// ErrDecisionBusy is the fault cause when the previous call still runs.
	ErrDecisionBusy = errors.New("previous decision still in flight")
	// ErrNilStrategy is returned when a factory builds no strategy.
	ErrNilStrategy = errors.New("factory returned a nil strategy")
)

// Options tunes an Adapter.
type Options struct {
	// Budget is the wall-clock limit of one decision. Zero selects
	// timeouts.Decision.
	Budget time.Duration
	// OnFault is called for every fault.
	OnFault FaultHook
	// Logger receives fault warnings. Nil selects log.Default().
	Logger *log.Logger
	// MeterProvider records decision metrics. Nil selects the global one.
	MeterProvider metric.MeterProvider
}

type outcome struct {
	action game.Action
	err    error
	panic  bool
}

// Adapter invokes one strategy for one seated player within one match. It
// implements game.Decider and never returns anything but a valid action.
//
// Decide is not safe for concurrent use; the match engine calls it
// sequentially.
type Adapter struct {
	name     string
	playerID string
	strategy Strategy
	actx     *Context
	budget   time.Duration
	onFault  FaultHook
	logger   *log.Logger
	metrics  instruments

	// inflight is closed when the abandoned call returns.
	inflight chan struct{}
	faults   FaultCounts
	calls    int
}

var _ game.Decider = (*Adapter)(nil)

// NewAdapter builds a fresh strategy from f and a fresh Context for the
// player. Strategies implementing Initializer are initialised before the
// adapter is returned.
func NewAdapter(f Factory, playerID string, matchSeed int64, opts Options) (*Adapter, error) {
	if f == nil {
		return nil, fmt.Errorf("agent factory is required")
	}
	strategy, err := f.NewStrategy()
	if err != nil {
		return nil, fmt.Errorf("build strategy %s: %w", f.Name(), err)
	}
	if strategy == nil {
		return nil, fmt.Errorf("build strategy %s: %w", f.Name(), ErrNilStrategy)
	}
	actx := NewContext(f.Name(), playerID, matchSeed)
	if init, ok := strategy.(Initializer); ok {
		if err := init.Init(actx); err != nil {
			_ = actx.Close()
			return nil, fmt.Errorf("init strategy %s: %w", f.Name(), err)
		}
	}
	if opts.Budget <= 0 {
		opts.Budget = timeouts.Decision
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Adapter{
		name:     f.Name(),
		playerID: playerID,
		strategy: strategy,
		actx:     actx,
		budget:   opts.Budget,
		onFault:  opts.OnFault,
		logger:   opts.Logger,
		metrics:  newInstruments(opts.MeterProvider),
		faults:   make(FaultCounts),
	}, nil
}

// Name returns the roster name of the wrapped strategy.
func (a *Adapter) Name() string { return a.name }

// PlayerID returns the seat the adapter plays.
func (a *Adapter) PlayerID() string { return a.playerID }

// Context returns the agent's per-match context.
func (a *Adapter) Context() *Context { return a.actx }

// Calls returns the number of Decide calls made.
func (a *Adapter) Calls() int { return a.calls }

// Faults returns a copy of the fault tally.
func (a *Adapter) Faults() FaultCounts {
	out := make(FaultCounts, len(a.faults))
	for k, v := range a.faults {
		out[k] = v
	}
	return out
}

// Decide asks the strategy for an action within the decision budget. Any
// failure yields game.Liar(). When ctx itself is cancelled the fallback is
// returned without recording a fault.
func (a *Adapter) Decide(ctx context.Context, view game.View) game.Action {
	a.calls++
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, a.budget)
	defer cancel()
	defer func() {
		a.metrics.decisions.Record(ctx, float64(time.Since(start).Microseconds())/1000,
			metric.WithAttributes(attribute.String("agent", a.name)))
	}()

	if a.inflight != nil {
		select {
		case <-a.inflight:
			a.inflight = nil
		case <-callCtx.Done():
			if ctx.Err() == nil {
				a.fault(ctx, FaultBusy, view, ErrDecisionBusy)
			}
			return game.Liar()
		}
	}

	results := make(chan outcome, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				results <- outcome{
					err:   fmt.Errorf("panic: %v\n%s", r, strings.TrimSpace(string(debug.Stack()))),
					panic: true,
				}
			}
		}()
		action, err := a.strategy.Decide(callCtx, a.actx, view)
		results <- outcome{action: action, err: err}
	}()

	select {
	case out := <-results:
		switch {
		case out.panic:
			a.fault(ctx, FaultPanic, view, out.err)
			return game.Liar()
		case out.err != nil:
			if ctx.Err() != nil {
				return game.Liar()
			}
			a.fault(ctx, FaultError, view, out.err)
			return game.Liar()
		}
		if err := out.action.Validate(); err != nil {
			a.fault(ctx, FaultMalformed, view, err)
			return game.Liar()
		}
		return out.action
	case <-callCtx.Done():
		a.inflight = done
		if ctx.Err() == nil {
			a.fault(ctx, FaultTimeout, view, fmt.Errorf("%w: %s", ErrDecisionTimeout, a.budget))
		}
		return game.Liar()
	}
}

func (a *Adapter) fault(ctx context.Context, kind FaultKind, view game.View, err error) {
	a.faults[kind]++
	a.metrics.faults.Add(ctx, 1, metric.WithAttributes(
		attribute.String("agent", a.name),
		attribute.String("kind", string(kind)),
	))
	detail := ""
	if err != nil {
		detail = firstLine(err.Error())
	}
	a.logger.Printf("agent %s (%s): %s fault, falling back to liar: %s", a.name, a.playerID, kind, detail)
	if a.onFault != nil {
		a.onFault(Fault{Agent: a.name, PlayerID: a.playerID, Kind: kind, Seed: view.Seed, Err: err})
	}
}

// Close waits up to one budget for an abandoned call to return, then closes
// the agent's Context.
func (a *Adapter) Close() error {
	if a.inflight != nil {
		timer := time.NewTimer(a.budget)
		select {
		case <-a.inflight:
			a.inflight = nil
		case <-timer.C:
			a.logger.Printf("agent %s (%s): closing with a decision still in flight", a.name, a.playerID)
		}
		timer.Stop()
	}
	return a.actx.Close()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
