package luaagent

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/core/dice"
	"github.com/louisbranch/liarsdice/internal/platform/timeouts"
)

//go:embed scripts/*.lua
var bundled embed.FS

// ErrNoDecide indicates a script that does not define a decide function.
var ErrNoDecide = errors.New("script does not define a global decide function")

// Script is a loaded, syntax-checked Lua policy.
type Script struct {
	Name   string
	Chunk  string
	Source string
}

// LoadFile reads the script at path.
func LoadFile(name, scriptPath string) (Script, error) {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return Script{}, fmt.Errorf("read lua script: %w", err)
	}
	return Parse(name, filepath.Base(scriptPath), string(data))
}

// LoadBundled returns one of the scripts shipped with the binary.
func LoadBundled(name, bot string) (Script, error) {
	data, err := fs.ReadFile(bundled, path.Join("scripts", bot+".lua"))
	if err != nil {
		return Script{}, fmt.Errorf("bundled lua script %q: %w", bot, err)
	}
	return Parse(name, bot+".lua", string(data))
}

// Bundled lists the names of the scripts shipped with the binary.
func Bundled() []string {
	entries, err := fs.ReadDir(bundled, "scripts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, strings.TrimSuffix(e.Name(), ".lua"))
		}
	}
	sort.Strings(names)
	return names
}

// Parse compiles source in a scratch interpreter so syntax errors and a
// missing decide function are reported before any match starts.
func Parse(name, chunk, source string) (Script, error) {
	s := Script{Name: strings.TrimSpace(name), Chunk: chunk, Source: source}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(chunk, filepath.Ext(chunk))
	}
	if _, _, err := s.boot(nil); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Factory returns an agent.Factory that builds a fresh interpreter for every
// match.
func (s Script) Factory() agent.Factory {
	return agent.NewFactory(s.Name, func() (agent.Strategy, error) {
		return &Strategy{script: s}, nil
	})
}

// boot creates a sandbox with an empty self table, runs the script body
// under the process start timeout and checks decide exists.
func (s Script) boot(rng *dice.Source) (*lua.State, *preemption, error) {
	l := newSandbox(rng)
	l.NewTable()
	l.SetGlobal("self")

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.ProcessStart)
	defer cancel()
	guard := &preemption{ctx: ctx}
	guard.install(l)
	if err := s.run(l); err != nil {
		return nil, nil, err
	}
	guard.ctx = nil
	return l, guard, nil
}

func (s Script) run(l *lua.State) error {
	if err := lua.LoadBuffer(l, s.Source, "@"+s.Chunk, "t"); err != nil {
		return fmt.Errorf("load lua script %s: %w", s.Chunk, err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("run lua script %s: %w", s.Chunk, err)
	}
	l.Global("decide")
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeFunction {
		return fmt.Errorf("%s: %w", s.Chunk, ErrNoDecide)
	}
	return nil
}
