package agent

import (
	"context"
	"strings"

	"github.com/louisbranch/liarsdice/internal/game"
)

// Strategy is pluggable decision code. Decide may block; the adapter stops
// waiting once the decision budget is spent and cancels ctx.
type Strategy interface {
	Decide(ctx context.Context, actx *Context, view game.View) (game.Action, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(ctx context.Context, actx *Context, view game.View) (game.Action, error)

// Decide calls f.
func (f StrategyFunc) Decide(ctx context.Context, actx *Context, view game.View) (game.Action, error) {
	return f(ctx, actx, view)
}

// Initializer is implemented by strategies that prepare per-match state
// before the first decision.
type Initializer interface {
	Init(actx *Context) error
}

// Factory builds a fresh Strategy for every match.
type Factory interface {
	Name() string
	NewStrategy() (Strategy, error)
}

type factory struct {
	name  string
	build func() (Strategy, error)
}

// NewFactory returns a Factory named name that calls build.
func NewFactory(name string, build func() (Strategy, error)) Factory {
	return &factory{name: strings.TrimSpace(name), build: build}
}

// StaticFactory returns a Factory that hands out the same stateless strategy.
// Any per-match state must live in the Context.
func StaticFactory(name string, s Strategy) Factory {
	return NewFactory(name, func() (Strategy, error) { return s, nil })
}

func (f *factory) Name() string { return f.name }

func (f *factory) NewStrategy() (Strategy, error) { return f.build() }

// Renamed wraps f so it reports name instead of its own.
func Renamed(f Factory, name string) Factory {
	return NewFactory(name, f.NewStrategy)
}
