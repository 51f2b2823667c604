package agent

import (
	"sort"
	"strconv"
	"strings"
)

// FaultKind classifies a failed decision.
type FaultKind string

const (
	FaultTimeout   FaultKind = "timeout"
	FaultPanic     FaultKind = "panic"
	FaultError     FaultKind = "error"
	FaultMalformed FaultKind = "malformed"
	FaultBusy      FaultKind = "busy"
)

// Fault describes one decision that fell back to the liar call.
type Fault struct {
	Agent    string
	PlayerID string
	Kind     FaultKind
	Seed     int64
	Err      error
}

// Detail returns the fault cause as text.
func (f Fault) Detail() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return f.Err.Error()
}

// FaultHook observes faults as they happen. It runs on the match goroutine.
type FaultHook func(Fault)

// FaultCounts tallies faults by kind.
type FaultCounts map[FaultKind]int

// Total returns the number of faults of every kind.
func (c FaultCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Add accumulates other into c.
func (c FaultCounts) Add(other FaultCounts) {
	for k, v := range other {
		c[k] += v
	}
}

func (c FaultCounts) String() string {
	kinds := make([]string, 0, len(c))
	for k := range c {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	var b strings.Builder
	for i, k := range kinds {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(strconv.Itoa(c[FaultKind(k)]))
	}
	return b.String()
}
