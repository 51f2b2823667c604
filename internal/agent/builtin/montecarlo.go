package builtin

import (
	"context"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/core/dice"
	"github.com/louisbranch/liarsdice/internal/game"
)

// MonteCarlo samples the unseen dice from the decision seed and compares the
// empirical value of calling liar against raising.
type MonteCarlo struct {
	// Samples is the number of simulated tables per decision.
	Samples int
}

// NewMonteCarlo returns the sampling strategy.
func NewMonteCarlo() *MonteCarlo { return &MonteCarlo{Samples: 400} }

// Decide implements agent.Strategy.
func (m *MonteCarlo) Decide(ctx context.Context, actx *agent.Context, v game.View) (game.Action, error) {
	t := readTable(v)
	src := dice.NewSource(v.Seed)
	samples := max(50, m.Samples)

	// hits[f][k] counts samples with exactly k unseen dice showing face f.
	hits := make([][]int, dice.Faces+1)
	for f := range hits {
		hits[f] = make([]int, t.unknown+1)
	}
	var tally [dice.Faces + 1]int
	for s := 0; s < samples; s++ {
		if s%64 == 0 {
			if err := ctx.Err(); err != nil {
				return game.Action{}, err
			}
		}
		clear(tally[:])
		for i := 0; i < t.unknown; i++ {
			tally[1+src.Intn(dice.Faces)]++
		}
		for f := 1; f <= dice.Faces; f++ {
			hits[f][tally[f]]++
		}
	}
	prob := func(bid game.Bid) float64 {
		need := t.need(bid)
		if need == 0 {
			return 1
		}
		if need > t.unknown {
			return 0
		}
		n := 0
		for k := need; k <= t.unknown; k++ {
			n += hits[bid.Face][k]
		}
		return float64(n) / float64(samples)
	}

	if v.CurrentBid == nil {
		face, count := t.bestFace()
		qty := max(1, count)
		for qty+1 <= t.total && prob(game.Bid{Quantity: qty + 1, Face: face}) >= 0.5 {
			qty++
		}
		return game.Raise(qty, face), nil
	}

	prev := *v.CurrentBid
	truth := prob(prev)
	// Calling wins when the claim is false; raising survives when our own
	// claim holds. Pick whichever is more likely to keep our dice.
	best, ok := bestRaise(prev, prob)
	if !ok || 1-truth >= prob(best) {
		return game.Liar(), nil
	}
	return game.Raise(best.Quantity, best.Face), nil
}

// bestRaise returns the most probable raise among the next two quantities.
func bestRaise(prev game.Bid, prob func(game.Bid) float64) (game.Bid, bool) {
	var best game.Bid
	bestP := -1.0
	for q := prev.Quantity; q <= prev.Quantity+1; q++ {
		for f := 1; f <= dice.Faces; f++ {
			b := game.Bid{Quantity: q, Face: f}
			if !b.Beats(prev) {
				continue
			}
			if p := prob(b); p > bestP {
				best, bestP = b, p
			}
		}
	}
	return best, bestP >= 0
}
