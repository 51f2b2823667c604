package luaagent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/game"
)

var errNotInitialized = errors.New("lua strategy used before Init")

// Strategy is one interpreter running one script for one match.
type Strategy struct {
	script Script
	l      *lua.State
	guard  *preemption
}

var (
	_ agent.Strategy    = (*Strategy)(nil)
	_ agent.Initializer = (*Strategy)(nil)
)

// Init builds the interpreter, seeds math.random from the agent stream,
// creates the self table and runs the script body.
func (s *Strategy) Init(actx *agent.Context) error {
	l, guard, err := s.script.boot(actx.Rand)
	if err != nil {
		return err
	}
	s.l = l
	s.guard = guard
	return nil
}

// Decide calls decide(state, self). Running past ctx raises a Lua error
// from the instruction hook.
func (s *Strategy) Decide(ctx context.Context, _ *agent.Context, view game.View) (game.Action, error) {
	if s.l == nil {
		return game.Action{}, errNotInitialized
	}
	l := s.l
	s.guard.ctx = ctx
	defer func() { s.guard.ctx = nil }()
	top := l.Top()
	defer l.SetTop(top)

	l.Global("decide")
	if err := pushView(l, view); err != nil {
		return game.Action{}, err
	}
	l.Global("self")
	if err := l.ProtectedCall(2, 1, 0); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return game.Action{}, ctxErr
		}
		return game.Action{}, fmt.Errorf("decide: %w", err)
	}
	return readAction(l), nil
}

// pushView pushes the decision request as a table with the same field names
// as its JSON encoding.
func pushView(l *lua.State, view game.View) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode view: %w", err)
	}
	pushValue(l, v)
	return nil
}

func pushValue(l *lua.State, v any) {
	switch x := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(x)
	case string:
		l.PushString(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			l.PushInteger(int(n))
			return
		}
		f, _ := x.Float64()
		l.PushNumber(f)
	case []any:
		l.CreateTable(len(x), 0)
		for i, e := range x {
			pushValue(l, e)
			l.RawSetInt(-2, i+1)
		}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		l.CreateTable(0, len(x))
		for _, k := range keys {
			pushValue(l, x[k])
			l.SetField(-2, k)
		}
	default:
		l.PushNil()
	}
}

// readAction converts the value on top of the stack. A bare "liar" string
// is accepted; anything unrecognised becomes the zero Action so the adapter
// reports it as malformed.
func readAction(l *lua.State) game.Action {
	idx := l.Top()
	switch l.TypeOf(idx) {
	case lua.TypeString:
		s, _ := l.ToString(idx)
		return game.Action{Kind: game.ActionKind(strings.ToLower(strings.TrimSpace(s)))}
	case lua.TypeTable:
		l.Field(idx, "action")
		kind, _ := l.ToString(-1)
		l.Pop(1)
		return game.Action{
			Kind:     game.ActionKind(strings.ToLower(strings.TrimSpace(kind))),
			Quantity: intField(l, idx, "quantity"),
			Face:     intField(l, idx, "face"),
		}
	default:
		return game.Action{}
	}
}

func intField(l *lua.State, idx int, key string) int {
	l.Field(idx, key)
	defer l.Pop(1)
	n, _ := l.ToInteger(-1)
	return n
}
