package agent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/louisbranch/liarsdice/internal/game"
)

const testBudget = 20 * time.Millisecond

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestAdapter(t *testing.T, s Strategy, hook FaultHook) *Adapter {
	t.Helper()
	a, err := NewAdapter(StaticFactory("test", s), "P1", 42, Options{Budget: testBudget, OnFault: hook, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func openingView() game.View {
	return game.View{
		You:     game.Self{ID: "P1", Dice: []int{2, 2, 5}},
		Players: []game.Player{{ID: "P1", DiceCount: 3}, {ID: "P2", DiceCount: 3}},
		Rules:   game.DefaultRules(),
		Seed:    1001,
	}
}

func TestAdapterPassesValidAction(t *testing.T) {
	t.Parallel()

	a := newTestAdapter(t, StrategyFunc(func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
		return game.Raise(2, 2), nil
	}), nil)

	got := a.Decide(context.Background(), openingView())
	if got != game.Raise(2, 2) {
		t.Fatalf("action = %v, want raise 2x2", got)
	}
	if n := a.Faults().Total(); n != 0 {
		t.Fatalf("expected no faults, got %d", n)
	}
}

func TestAdapterFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		strategy StrategyFunc
		want     FaultKind
	}{
		{
			name: "timeout",
			strategy: func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
				time.Sleep(5 * testBudget)
				return game.Raise(1, 1), nil
			},
			want: FaultTimeout,
		},
		{
			name: "panic",
			strategy: func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
				panic("strategy exploded")
			},
			want: FaultPanic,
		},
		{
			name: "error",
			strategy: func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
				return game.Action{}, errors.New("no idea")
			},
			want: FaultError,
		},
		{
			name: "malformed face",
			strategy: func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
				return game.Raise(2, 7), nil
			},
			want: FaultMalformed,
		},
		{
			name: "malformed quantity",
			strategy: func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
				return game.Raise(0, 3), nil
			},
			want: FaultMalformed,
		},
		{
			name: "unknown kind",
			strategy: func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
				return game.Action{Kind: "fold"}, nil
			},
			want: FaultMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen []Fault
			a := newTestAdapter(t, tt.strategy, func(f Fault) { seen = append(seen, f) })

			got := a.Decide(context.Background(), openingView())
			if got != game.Liar() {
				t.Fatalf("action = %v, want liar", got)
			}
			if a.Faults()[tt.want] != 1 {
				t.Fatalf("faults = %v, want one %s", a.Faults(), tt.want)
			}
			if len(seen) != 1 || seen[0].Kind != tt.want {
				t.Fatalf("hook saw %+v", seen)
			}
			if seen[0].Agent != "test" || seen[0].PlayerID != "P1" || seen[0].Seed != 1001 {
				t.Fatalf("fault metadata = %+v", seen[0])
			}
		})
	}
}

func TestAdapterTimeoutCancelsStrategyContext(t *testing.T) {
	t.Parallel()

	cancelled := make(chan struct{})
	a := newTestAdapter(t, StrategyFunc(func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
		<-ctx.Done()
		close(cancelled)
		return game.Action{}, ctx.Err()
	}), nil)

	if got := a.Decide(context.Background(), openingView()); got != game.Liar() {
		t.Fatalf("action = %v, want liar", got)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("strategy context was not cancelled")
	}
}

func TestAdapterBusyWhileEarlierCallRuns(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	calls := 0
	a := newTestAdapter(t, StrategyFunc(func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
		calls++
		if calls == 1 {
			<-release
			return game.Raise(1, 1), nil
		}
		return game.Raise(3, 3), nil
	}), nil)

	if got := a.Decide(context.Background(), openingView()); got != game.Liar() {
		t.Fatalf("first action = %v, want liar", got)
	}
	if got := a.Decide(context.Background(), openingView()); got != game.Liar() {
		t.Fatalf("second action = %v, want liar", got)
	}
	faults := a.Faults()
	if faults[FaultTimeout] != 1 || faults[FaultBusy] != 1 {
		t.Fatalf("faults = %v, want one timeout and one busy", faults)
	}

	close(release)
	if got := a.Decide(context.Background(), openingView()); got != game.Raise(3, 3) {
		t.Fatalf("third action = %v, want raise 3x3", got)
	}
	if calls != 2 {
		t.Fatalf("strategy calls = %d, want 2", calls)
	}
}

func TestAdapterParentCancellationIsNotAFault(t *testing.T) {
	t.Parallel()

	a := newTestAdapter(t, StrategyFunc(func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
		<-ctx.Done()
		return game.Action{}, ctx.Err()
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := a.Decide(ctx, openingView()); got != game.Liar() {
		t.Fatalf("action = %v, want liar", got)
	}
	if n := a.Faults().Total(); n != 0 {
		t.Fatalf("expected no faults, got %v", a.Faults())
	}
}

type countingStrategy struct {
	inits int
}

func (s *countingStrategy) Init(actx *Context) error {
	s.inits++
	actx.State["decisions"] = 0
	return nil
}

func (s *countingStrategy) Decide(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
	n := actx.State["decisions"].(int) + 1
	actx.State["decisions"] = n
	return game.Raise(n, 6), nil
}

func TestAdapterContextPersistsAcrossCalls(t *testing.T) {
	t.Parallel()

	s := &countingStrategy{}
	a := newTestAdapter(t, s, nil)
	for want := 1; want <= 3; want++ {
		if got := a.Decide(context.Background(), openingView()); got != game.Raise(want, 6) {
			t.Fatalf("call %d: action = %v", want, got)
		}
	}
	if s.inits != 1 {
		t.Fatalf("init calls = %d, want 1", s.inits)
	}
	if a.Calls() != 3 {
		t.Fatalf("calls = %d, want 3", a.Calls())
	}
}

func TestAdapterContextsAreNotShared(t *testing.T) {
	t.Parallel()

	f := NewFactory("counter", func() (Strategy, error) { return &countingStrategy{}, nil })
	first, err := NewAdapter(f, "P1", 1, Options{Budget: testBudget, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	second, err := NewAdapter(f, "P1", 2, Options{Budget: testBudget, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	first.Decide(context.Background(), openingView())
	first.Decide(context.Background(), openingView())
	if got := second.Decide(context.Background(), openingView()); got != game.Raise(1, 6) {
		t.Fatalf("second match action = %v, want fresh state", got)
	}
	if first.Context() == second.Context() {
		t.Fatal("expected distinct contexts")
	}
	_ = first.Close()
	_ = second.Close()
}

func TestAdapterCloseRunsContextClosers(t *testing.T) {
	t.Parallel()

	closed := 0
	s := StrategyFunc(func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
		return game.Liar(), nil
	})
	a, err := NewAdapter(StaticFactory("closer", s), "P1", 1, Options{Budget: testBudget, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	a.Context().OnClose(func() error { closed++; return nil })
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if closed != 1 {
		t.Fatalf("closer ran %d times, want 1", closed)
	}
}

type failingInit struct{ StrategyFunc }

func (failingInit) Init(*Context) error { return errors.New("no beliefs") }

func TestNewAdapterErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewAdapter(nil, "P1", 1, Options{}); err == nil {
		t.Fatal("expected nil factory error")
	}
	nilFactory := NewFactory("nil", func() (Strategy, error) { return nil, nil })
	if _, err := NewAdapter(nilFactory, "P1", 1, Options{}); !errors.Is(err, ErrNilStrategy) {
		t.Fatalf("expected ErrNilStrategy, got %v", err)
	}
	broken := NewFactory("broken", func() (Strategy, error) { return nil, errors.New("boom") })
	if _, err := NewAdapter(broken, "P1", 1, Options{}); err == nil {
		t.Fatal("expected factory error")
	}
	if _, err := NewAdapter(StaticFactory("init", failingInit{}), "P1", 1, Options{}); err == nil {
		t.Fatal("expected init error")
	}
}

func TestAdapterDrivesMatchToCompletion(t *testing.T) {
	t.Parallel()

	panicky := StrategyFunc(func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
		panic("always")
	})
	raiser := StrategyFunc(func(ctx context.Context, actx *Context, v game.View) (game.Action, error) {
		if v.CurrentBid == nil {
			return game.Raise(1, 2), nil
		}
		return game.Raise(v.CurrentBid.Quantity+1, v.CurrentBid.Face), nil
	})
	seats := make([]game.Seat, 0, 3)
	for i, s := range []Strategy{panicky, raiser, panicky} {
		id := []string{"P1", "P2", "P3"}[i]
		a, err := NewAdapter(StaticFactory(id, s), id, 7, Options{Budget: testBudget, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("new adapter: %v", err)
		}
		defer a.Close()
		seats = append(seats, game.Seat{ID: id, Decider: a})
	}
	m, err := game.NewMatch(7, seats, game.Config{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	res, err := m.Play(context.Background())
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if len(res.Placements) != 3 {
		t.Fatalf("expected 3 placements, got %+v", res.Placements)
	}
}
