// Package procagent runs an external program as an agent strategy.
//
// The program is started once per match with an empty environment. Every
// decision writes one JSON line {"seq": n, "state": view} to its stdin and
// reads one JSON line {"action": "raise", "quantity": q, "face": f} or
// {"action": "liar"} from its stdout. Replies that arrive after the
// decision budget are drained and discarded.
package procagent

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/game"
	"github.com/tidwall/gjson"
)

const (
	// maxReplyBytes bounds one reply line.
	maxReplyBytes = 1 << 20
	// exitGrace is how long a closed process may take to exit on its own.
	exitGrace = 100 * time.Millisecond
)

var (
	// ErrEmptyCommand indicates a command line without a program.
	ErrEmptyCommand = errors.New("agent command is empty")
	// ErrProcessExited indicates the program closed its stdout.
	ErrProcessExited = errors.New("agent process exited")
)

// Command is a program and its arguments.
type Command struct {
	Path string
	Args []string
	// Stderr receives the program's standard error. Nil discards it.
	Stderr io.Writer
}

// ParseCommand splits a command line on whitespace.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}
	return Command{Path: fields[0], Args: fields[1:]}, nil
}

// Validate checks the program can be found.
func (c Command) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return ErrEmptyCommand
	}
	if _, err := exec.LookPath(c.Path); err != nil {
		return fmt.Errorf("agent command %s: %w", c.Path, err)
	}
	return nil
}

// Factory returns an agent.Factory that starts a fresh process per match.
func Factory(name string, cmd Command) agent.Factory {
	return agent.NewFactory(name, func() (agent.Strategy, error) {
		return &Strategy{cmd: cmd}, nil
	})
}

type request struct {
	Seq   int       `json:"seq"`
	State game.View `json:"state"`
}

// Strategy talks to one running process.
type Strategy struct {
	cmd Command

	proc  *exec.Cmd
	stdin io.WriteCloser
	lines chan string
	// readErr is set before lines is closed.
	readErr error

	sent     int
	received int
	quit     chan struct{}
	exited   chan struct{}
}

var (
	_ agent.Strategy    = (*Strategy)(nil)
	_ agent.Initializer = (*Strategy)(nil)
)

// Init starts the process and registers its shutdown with the context.
func (s *Strategy) Init(actx *agent.Context) error {
	proc := exec.Command(s.cmd.Path, s.cmd.Args...)
	proc.Env = []string{}
	proc.Stderr = s.cmd.Stderr
	if proc.Stderr == nil {
		proc.Stderr = io.Discard
	}
	stdin, err := proc.StdinPipe()
	if err != nil {
		return fmt.Errorf("agent stdin: %w", err)
	}
	stdout, err := proc.StdoutPipe()
	if err != nil {
		return fmt.Errorf("agent stdout: %w", err)
	}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("start agent %s: %w", s.cmd.Path, err)
	}
	s.proc = proc
	s.stdin = stdin
	s.lines = make(chan string, 16)
	s.quit = make(chan struct{})
	s.exited = make(chan struct{})
	go s.read(stdout)
	actx.OnClose(s.close)
	return nil
}

func (s *Strategy) read(stdout io.Reader) {
	defer close(s.lines)
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 4096), maxReplyBytes)
	for scanner.Scan() {
		select {
		case s.lines <- scanner.Text():
		case <-s.quit:
			return
		}
	}
	s.readErr = scanner.Err()
}

// Decide writes the request and waits for its reply. Lines answering
// earlier, abandoned requests are discarded.
func (s *Strategy) Decide(ctx context.Context, _ *agent.Context, view game.View) (game.Action, error) {
	if s.proc == nil {
		return game.Action{}, errors.New("agent process not started")
	}
	s.sent++
	payload, err := json.Marshal(request{Seq: s.sent, State: view})
	if err != nil {
		return game.Action{}, fmt.Errorf("encode request: %w", err)
	}
	if _, err := s.stdin.Write(append(payload, '\n')); err != nil {
		return game.Action{}, fmt.Errorf("write request: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return game.Action{}, ctx.Err()
		case line, ok := <-s.lines:
			if !ok {
				if s.readErr != nil {
					return game.Action{}, fmt.Errorf("%w: %v", ErrProcessExited, s.readErr)
				}
				return game.Action{}, ErrProcessExited
			}
			s.received++
			if s.received < s.sent {
				continue
			}
			return ParseReply(line), nil
		}
	}
}

// ParseReply converts one reply line. Anything that is not a JSON object
// with a known action yields the zero Action, which callers treat as
// malformed.
func ParseReply(line string) game.Action {
	line = strings.TrimSpace(line)
	if !gjson.Valid(line) {
		return game.Action{}
	}
	reply := gjson.Parse(line)
	if !reply.IsObject() {
		return game.Action{}
	}
	kind := game.ActionKind(strings.ToLower(reply.Get("action").String()))
	switch kind {
	case game.ActionLiar:
		return game.Liar()
	case game.ActionRaise:
		q, f := reply.Get("quantity"), reply.Get("face")
		if q.Type != gjson.Number || f.Type != gjson.Number {
			return game.Action{}
		}
		if q.Float() != float64(q.Int()) || f.Float() != float64(f.Int()) {
			return game.Action{}
		}
		return game.Raise(int(q.Int()), int(f.Int()))
	default:
		return game.Action{}
	}
}

// close shuts stdin, gives the process a moment to exit and kills it
// otherwise.
func (s *Strategy) close() error {
	if s.proc == nil {
		return nil
	}
	close(s.quit)
	_ = s.stdin.Close()
	go func() {
		_ = s.proc.Wait()
		close(s.exited)
	}()
	timer := time.NewTimer(exitGrace)
	defer timer.Stop()
	select {
	case <-s.exited:
	case <-timer.C:
		_ = s.proc.Process.Kill()
		<-s.exited
	}
	return nil
}
