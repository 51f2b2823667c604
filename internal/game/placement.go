package game

import (
	"errors"
	"fmt"
)

// PlacementTable maps a 1-based finishing rank to tournament points. Ranks
// past the end of the table are worth zero.
type PlacementTable []float64

// DefaultPlacementTable is the standard tournament scoring.
var DefaultPlacementTable = PlacementTable{100, 55, 35, 20, 5}

// ErrDuplicatePlacement indicates a player appears twice in the elimination
// order.
var ErrDuplicatePlacement = errors.New("player placed more than once")

// Points returns the points for rank.
func (t PlacementTable) Points(rank int) float64 {
	if rank < 1 || rank > len(t) {
		return 0
	}
	return t[rank-1]
}

// Sum returns the total points for ranks lo..hi inclusive.
func (t PlacementTable) Sum(lo, hi int) float64 {
	total := 0.0
	for r := lo; r <= hi; r++ {
		total += t.Points(r)
	}
	return total
}

// Average returns the mean points over ranks lo..hi inclusive.
func (t PlacementTable) Average(lo, hi int) float64 {
	if hi < lo {
		return 0
	}
	return t.Sum(lo, hi) / float64(hi-lo+1)
}

// Placement is one player's finishing position. Tied players share the rank
// range [RankLo, RankHi] and the averaged points of that range.
type Placement struct {
	PlayerID string
	RankLo   int
	RankHi   int
	Points   float64
	Step     int
}

// FinishRank returns the midpoint of the rank range.
func (p Placement) FinishRank() float64 {
	return float64(p.RankLo+p.RankHi) / 2
}

// Tied reports whether the placement is shared with other players.
func (p Placement) Tied() bool {
	return p.RankLo != p.RankHi
}

// Place converts the elimination order into placements.
//
// Steps are ordered earliest elimination first. Ranks are consumed from the
// bottom: the first step takes the worst ranks. An empty winner is allowed
// for a match where every remaining player was eliminated at once; the last
// step then reaches rank 1. The result is ordered best rank first.
func Place(steps []EliminationStep, winner string, table PlacementTable) ([]Placement, error) {
	n := 0
	seen := make(map[string]struct{})
	mark := func(id string) error {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlacement, id)
		}
		seen[id] = struct{}{}
		n++
		return nil
	}
	for _, step := range steps {
		for _, id := range step.Players {
			if err := mark(id); err != nil {
				return nil, err
			}
		}
	}
	if winner != "" {
		if err := mark(winner); err != nil {
			return nil, err
		}
	}

	groups := make([][]Placement, 0, len(steps)+1)
	next := n
	for _, step := range steps {
		k := len(step.Players)
		if k == 0 {
			continue
		}
		lo, hi := next-k+1, next
		points := table.Average(lo, hi)
		group := make([]Placement, 0, k)
		for _, id := range step.Players {
			group = append(group, Placement{
				PlayerID: id,
				RankLo:   lo,
				RankHi:   hi,
				Points:   points,
				Step:     step.Step,
			})
		}
		groups = append(groups, group)
		next = lo - 1
	}
	if winner != "" {
		groups = append(groups, []Placement{{PlayerID: winner, RankLo: 1, RankHi: 1, Points: table.Points(1)}})
	}

	placements := make([]Placement, 0, n)
	for i := len(groups) - 1; i >= 0; i-- {
		placements = append(placements, groups[i]...)
	}
	return placements, nil
}
