package builtin

import (
	"context"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/game"
)

// Aggressive bluffs: it opens high, keeps raising on a seeded coin, and only
// challenges bids that are nearly impossible.
type Aggressive struct {
	BluffRate     float64
	LiarThreshold float64
}

// NewAggressive returns the bluffing strategy.
func NewAggressive() *Aggressive {
	return &Aggressive{BluffRate: 0.35, LiarThreshold: 0.10}
}

// Decide implements agent.Strategy. Randomness comes from the agent's own
// stream so runs stay reproducible.
func (a *Aggressive) Decide(ctx context.Context, actx *agent.Context, v game.View) (game.Action, error) {
	t := readTable(v)
	prob := func(bid game.Bid) float64 {
		return binomialTail(t.unknown, t.need(bid), faceProb)
	}
	bluff := actx.Rand.Float64() < a.BluffRate

	if v.CurrentBid == nil {
		face, count := t.bestFace()
		qty := max(1, count+int(float64(t.unknown)*faceProb))
		if bluff {
			qty++
		}
		return game.Raise(min(qty, max(1, t.total)), face), nil
	}

	prev := *v.CurrentBid
	if prob(prev) < a.LiarThreshold {
		return game.Liar(), nil
	}
	if bluff {
		face, _ := t.bestFace()
		next := game.Bid{Quantity: prev.Quantity + 1, Face: face}
		if face > prev.Face {
			next.Quantity = prev.Quantity
		}
		return game.Raise(next.Quantity, next.Face), nil
	}
	if next, ok := cheapestRaise(prev, 0.30, prob); ok {
		return game.Raise(next.Quantity, next.Face), nil
	}
	return game.Liar(), nil
}
