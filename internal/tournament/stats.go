package tournament

import (
	"cmp"
	"slices"
	"time"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/game"
)

// AgentStats accumulates one agent's results across the tournament.
type AgentStats struct {
	Name            string
	MatchesPlayed   int
	Wins            int
	PlacementPoints float64
	FinishRankTotal float64
	game.PlayerStats
	Faults agent.FaultCounts
}

// WinPct returns wins per match as a percentage.
func (s AgentStats) WinPct() float64 {
	return percent(s.Wins, s.MatchesPlayed)
}

// AvgPlacementScore returns placement points per match.
func (s AgentStats) AvgPlacementScore() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return s.PlacementPoints / float64(s.MatchesPlayed)
}

// AvgFinishRank returns the mean finishing rank. Tied ranks count as the
// midpoint of their range.
func (s AgentStats) AvgFinishRank() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return s.FinishRankTotal / float64(s.MatchesPlayed)
}

// LiarCallAccuracy returns the share of liar calls that caught a false
// claim, as a percentage.
func (s AgentStats) LiarCallAccuracy() float64 {
	return percent(s.CorrectLiarCalls, s.LiarCalls)
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return 100 * float64(n) / float64(d)
}

// MatchResult is the outcome of one scheduled job.
type MatchResult struct {
	Job
	Agents []string
	Result game.Result
	Faults []agent.Fault
	// FaultCounts is keyed by agent name.
	FaultCounts map[string]agent.FaultCounts
	// TraceID identifies the match span when tracing is enabled.
	TraceID string
}

// Report is the aggregate of a finished tournament.
type Report struct {
	Seed       int64
	Rounds     int
	MaxPlayers int
	Matches    int
	TurnGuards int
	StartedAt  time.Time
	FinishedAt time.Time
	// Standings is ordered best first.
	Standings []AgentStats
}

// FaultTotal sums faults across every agent.
func (r Report) FaultTotal() int {
	total := 0
	for _, s := range r.Standings {
		total += s.Faults.Total()
	}
	return total
}

// Standing returns the stats of the named agent.
func (r Report) Standing(name string) (AgentStats, bool) {
	for _, s := range r.Standings {
		if s.Name == name {
			return s, true
		}
	}
	return AgentStats{}, false
}

type accumulator struct {
	order      []string
	stats      map[string]*AgentStats
	turnGuards int
}

func newAccumulator(names []string) *accumulator {
	acc := &accumulator{order: names, stats: make(map[string]*AgentStats, len(names))}
	for _, n := range names {
		acc.stats[n] = &AgentStats{Name: n, Faults: make(agent.FaultCounts)}
	}
	return acc
}

func (a *accumulator) add(m MatchResult) {
	a.turnGuards += m.Result.TurnGuards
	for _, name := range m.Agents {
		s := a.stats[name]
		s.MatchesPlayed++
		if m.Result.Winner == name {
			s.Wins++
		}
		if p, ok := m.Result.PlacementFor(name); ok {
			s.PlacementPoints += p.Points
			s.FinishRankTotal += p.FinishRank()
		}
		if ps, ok := m.Result.StatsFor(name); ok {
			s.PlayerStats.Add(ps)
		}
		s.Faults.Add(m.FaultCounts[name])
	}
}

// standings orders agents by average placement score, then average finish
// rank, then win rate, then name.
func (a *accumulator) standings() []AgentStats {
	out := make([]AgentStats, 0, len(a.order))
	for _, n := range a.order {
		out = append(out, *a.stats[n])
	}
	slices.SortStableFunc(out, func(x, y AgentStats) int {
		if c := cmp.Compare(y.AvgPlacementScore(), x.AvgPlacementScore()); c != 0 {
			return c
		}
		if x.MatchesPlayed > 0 && y.MatchesPlayed > 0 {
			if c := cmp.Compare(x.AvgFinishRank(), y.AvgFinishRank()); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(y.WinPct(), x.WinPct()); c != 0 {
			return c
		}
		return cmp.Compare(x.Name, y.Name)
	})
	return out
}
