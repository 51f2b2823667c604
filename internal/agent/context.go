package agent

import (
	"errors"
	"hash/fnv"

	"github.com/louisbranch/liarsdice/internal/core/dice"
)

// Context is the per-agent, per-match state handed to every Decide call.
type Context struct {
	// Agent is the roster name of the strategy.
	Agent string
	// PlayerID is the seat id the agent plays as.
	PlayerID string
	// MatchSeed is the seed of the match the context belongs to.
	MatchSeed int64
	// Rand is a stream private to this agent within the match.
	Rand *dice.Source
	// State holds strategy-defined data that persists across hands.
	State map[string]any

	closers []func() error
	closed  bool
}

// NewContext creates the context of one agent for one match.
func NewContext(agentName, playerID string, matchSeed int64) *Context {
	return &Context{
		Agent:     agentName,
		PlayerID:  playerID,
		MatchSeed: matchSeed,
		Rand:      dice.NewSource(dice.DeriveSeed(matchSeed, hashString(playerID))),
		State:     make(map[string]any),
	}
}

// OnClose registers fn to run when the context is closed. Closers run in
// reverse registration order.
func (c *Context) OnClose(fn func() error) {
	if fn == nil {
		return
	}
	c.closers = append(c.closers, fn)
}

// Close releases resources registered with OnClose. Closing twice is a no-op.
func (c *Context) Close() error {
	if c == nil || c.closed {
		return nil
	}
	c.closed = true
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Closed reports whether Close has run.
func (c *Context) Closed() bool {
	return c.closed
}

func hashString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
