// Package roster turns agent specs into named strategy factories.
//
// A spec is one of
//
//	baseline | bayesian | adaptive | montecarlo | aggressive
//	lua:<path or bundled script>
//	exec:<command line>
//
// optionally prefixed by name= to set the display name. Repeated default
// names are made unique with #2, #3 suffixes; repeating an explicit name is
// an error.
package roster

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/agent/builtin"
	"github.com/louisbranch/liarsdice/internal/agent/luaagent"
	"github.com/louisbranch/liarsdice/internal/agent/procagent"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

// Spec kinds.
const (
	KindBuiltin = "builtin"
	KindLua     = "lua"
	KindExec    = "exec"
)

// Entry is one resolved roster slot.
type Entry struct {
	Name    string
	Spec    string
	Kind    string
	Factory agent.Factory
}

// Registry resolves specs against the built-in strategies and any factory
// registered at runtime.
type Registry struct {
	factories map[string]agent.Factory
	stderr    io.Writer
}

// Option configures a Registry.
type Option func(*Registry)

// WithStderr forwards the standard error of exec agents to w.
func WithStderr(w io.Writer) Option {
	return func(r *Registry) { r.stderr = w }
}

// New returns a registry preloaded with the built-in strategies.
func New(opts ...Option) *Registry {
	r := &Registry{factories: make(map[string]agent.Factory)}
	for _, name := range builtin.Names() {
		f, _ := builtin.Factory(name)
		r.factories[name] = f
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a named factory.
func (r *Registry) Register(name string, f agent.Factory) error {
	name = strings.TrimSpace(name)
	if f == nil {
		return apperrors.WithMetadata(apperrors.CodeAgentInvalidFactory, "agent factory is nil",
			map[string]string{"Agent": name})
	}
	if err := validName(name); err != nil {
		return err
	}
	if _, ok := r.factories[name]; ok {
		return apperrors.WithMetadata(apperrors.CodeAgentNameConflict, "agent already registered",
			map[string]string{"Agent": name})
	}
	r.factories[name] = f
	return nil
}

// Names lists the registered factory names and the bundled Lua scripts.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	for _, bot := range luaagent.Bundled() {
		names = append(names, KindLua+":"+bot)
	}
	sort.Strings(names)
	return names
}

// SplitList splits a comma separated roster, dropping blank entries.
func SplitList(list string) []string {
	var specs []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			specs = append(specs, s)
		}
	}
	return specs
}

// Resolve builds one entry per spec. Every script is loaded and every
// command looked up before returning, so configuration problems surface
// before any match starts.
func (r *Registry) Resolve(specs []string) ([]Entry, error) {
	if len(specs) == 0 {
		return nil, apperrors.New(apperrors.CodeRosterEmpty, "roster is empty")
	}
	entries := make([]Entry, 0, len(specs))
	explicit := make(map[string]bool)
	used := make(map[string]int)
	for _, spec := range specs {
		name, body, err := splitName(spec)
		if err != nil {
			return nil, err
		}
		entry, err := r.resolveBody(body)
		if err != nil {
			return nil, err
		}
		entry.Spec = spec
		if name != "" {
			if explicit[name] {
				return nil, apperrors.WithMetadata(apperrors.CodeAgentNameConflict, "agent name used twice",
					map[string]string{"Agent": name})
			}
			explicit[name] = true
			entry.Name = name
		}
		used[entry.Name]++
		if n := used[entry.Name]; n > 1 && name == "" {
			entry.Name = fmt.Sprintf("%s#%d", entry.Name, n)
		}
		if entry.Factory.Name() != entry.Name {
			entry.Factory = agent.Renamed(entry.Factory, entry.Name)
		}
		entries = append(entries, entry)
	}
	if err := checkUnique(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Factories returns the factories of entries in order.
func Factories(entries []Entry) []agent.Factory {
	out := make([]agent.Factory, len(entries))
	for i, e := range entries {
		out[i] = e.Factory
	}
	return out
}

func splitName(spec string) (name, body string, err error) {
	spec = strings.TrimSpace(spec)
	eq := strings.IndexByte(spec, '=')
	colon := strings.IndexByte(spec, ':')
	if eq < 0 || (colon >= 0 && colon < eq) {
		return "", spec, nil
	}
	name, body = strings.TrimSpace(spec[:eq]), strings.TrimSpace(spec[eq+1:])
	if err := validName(name); err != nil {
		return "", "", err
	}
	if body == "" {
		return "", "", invalidSpec(spec)
	}
	return name, body, nil
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "#,=") {
		return invalidSpec(name)
	}
	return nil
}

func (r *Registry) resolveBody(body string) (Entry, error) {
	kind, arg, hasArg := strings.Cut(body, ":")
	kind = strings.ToLower(strings.TrimSpace(kind))
	arg = strings.TrimSpace(arg)
	switch {
	case !hasArg:
		f, ok := r.factories[kind]
		if !ok {
			return Entry{}, apperrors.WithMetadata(apperrors.CodeAgentUnknown, "unknown agent",
				map[string]string{"Kind": kind})
		}
		return Entry{Name: kind, Kind: KindBuiltin, Factory: f}, nil
	case arg == "":
		return Entry{}, invalidSpec(body)
	case kind == KindLua:
		script, err := loadScript(arg)
		if err != nil {
			return Entry{}, loadFailed(arg, err)
		}
		return Entry{Name: script.Name, Kind: KindLua, Factory: script.Factory()}, nil
	case kind == KindExec:
		cmd, err := procagent.ParseCommand(arg)
		if err != nil {
			return Entry{}, invalidSpec(body)
		}
		if err := cmd.Validate(); err != nil {
			return Entry{}, loadFailed(arg, err)
		}
		cmd.Stderr = r.stderr
		name := strings.TrimSuffix(filepath.Base(cmd.Path), filepath.Ext(cmd.Path))
		return Entry{Name: name, Kind: KindExec, Factory: procagent.Factory(name, cmd)}, nil
	default:
		return Entry{}, apperrors.WithMetadata(apperrors.CodeAgentUnknown, "unknown agent kind",
			map[string]string{"Kind": kind})
	}
}

// loadScript reads arg as a file, falling back to a bundled script of that
// name when no such file exists.
func loadScript(arg string) (luaagent.Script, error) {
	if _, err := os.Stat(arg); err == nil {
		return luaagent.LoadFile("", arg)
	} else if !errors.Is(err, os.ErrNotExist) {
		return luaagent.Script{}, err
	}
	for _, bot := range luaagent.Bundled() {
		if bot == arg {
			return luaagent.LoadBundled(bot, bot)
		}
	}
	return luaagent.Script{}, fmt.Errorf("lua script %s: %w", arg, os.ErrNotExist)
}

// checkUnique rejects a generated suffix that collides with an explicit
// name.
func checkUnique(entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Name] {
			return apperrors.WithMetadata(apperrors.CodeAgentNameConflict, "agent name used twice",
				map[string]string{"Agent": e.Name})
		}
		seen[e.Name] = true
	}
	return nil
}

func invalidSpec(spec string) error {
	return apperrors.WithMetadata(apperrors.CodeRosterInvalidSpec, "invalid agent spec",
		map[string]string{"Spec": spec})
}

func loadFailed(agentName string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeAgentLoadFailed, "load agent",
		map[string]string{"Agent": agentName}, cause)
}

// SpecKind reports the kind an agent spec resolves to without loading it.
func SpecKind(spec string) (string, error) {
	_, body, err := splitName(spec)
	if err != nil {
		return "", err
	}
	kind, _, hasArg := strings.Cut(body, ":")
	if !hasArg {
		return KindBuiltin, nil
	}
	return strings.ToLower(strings.TrimSpace(kind)), nil
}
