package luaagent

import (
	"context"

	"github.com/Shopify/go-lua"
	"github.com/louisbranch/liarsdice/internal/core/dice"
)

// hookInterval is the number of VM instructions between preemption checks.
const hookInterval = 1000

var safeLibraries = []lua.RegistryFunction{
	{Name: "_G", Function: lua.BaseOpen},
	{Name: "string", Function: lua.StringOpen},
	{Name: "table", Function: lua.TableOpen},
	{Name: "math", Function: lua.MathOpen},
}

// removedGlobals are base library entries that reach outside the sandbox.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage"}

// newSandbox returns an interpreter with only the safe libraries loaded.
// math.random draws from rng; a nil rng uses a fixed stream.
func newSandbox(rng *dice.Source) *lua.State {
	l := lua.NewState()
	for _, lib := range safeLibraries {
		lua.Require(l, lib.Name, lib.Function, true)
		l.Pop(1)
	}
	for _, name := range removedGlobals {
		l.PushNil()
		l.SetGlobal(name)
	}
	if rng == nil {
		rng = dice.NewSource(1)
	}
	l.Global("math")
	l.PushGoFunction(seededRandom(rng))
	l.SetField(-2, "random")
	l.PushGoFunction(func(*lua.State) int { return 0 })
	l.SetField(-2, "randomseed")
	l.Pop(1)
	return l
}

// seededRandom mirrors math.random: no arguments yields [0,1), one argument
// m yields [1,m] and two arguments yield [m,n].
func seededRandom(rng *dice.Source) lua.Function {
	return func(l *lua.State) int {
		switch l.Top() {
		case 0:
			l.PushNumber(rng.Float64())
		case 1:
			hi := lua.CheckInteger(l, 1)
			lua.ArgumentCheck(l, hi >= 1, 1, "interval is empty")
			l.PushInteger(1 + rng.Intn(hi))
		case 2:
			lo := lua.CheckInteger(l, 1)
			hi := lua.CheckInteger(l, 2)
			lua.ArgumentCheck(l, lo <= hi, 2, "interval is empty")
			l.PushInteger(lo + rng.Intn(hi-lo+1))
		default:
			lua.Errorf(l, "wrong number of arguments")
		}
		return 1
	}
}

// preemption aborts a running script once ctx is done. ctx is swapped
// before every call on the goroutine that runs the interpreter.
type preemption struct {
	ctx context.Context
}

func (p *preemption) install(l *lua.State) {
	lua.SetDebugHook(l, func(l *lua.State, _ lua.Debug) {
		if p.ctx == nil {
			return
		}
		if err := p.ctx.Err(); err != nil {
			lua.Errorf(l, "preempted: %s", err.Error())
		}
	}, lua.MaskCount, hookInterval)
}
