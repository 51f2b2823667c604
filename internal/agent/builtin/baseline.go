package builtin

import (
	"context"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/game"
)

// Baseline challenges bids whose Gaussian estimate falls under LiarThreshold
// and otherwise makes the cheapest raise it believes at RaiseThreshold.
type Baseline struct {
	LiarThreshold  float64
	RaiseThreshold float64
}

// NewBaseline returns the baseline strategy with its standard thresholds.
func NewBaseline() *Baseline {
	return &Baseline{LiarThreshold: 0.20, RaiseThreshold: 0.40}
}

// Decide implements agent.Strategy.
func (b *Baseline) Decide(ctx context.Context, actx *agent.Context, v game.View) (game.Action, error) {
	t := readTable(v)
	prob := func(bid game.Bid) float64 {
		need := t.need(bid)
		if need == 0 {
			return 1
		}
		if need > t.unknown {
			return 0
		}
		return normalTail(need, float64(t.unknown)*faceProb)
	}

	if v.CurrentBid == nil {
		face, count := t.bestFace()
		qty := max(1, count+int(float64(t.unknown)*faceProb))
		for qty+1 <= t.total && prob(game.Bid{Quantity: qty + 1, Face: face}) >= b.RaiseThreshold {
			qty++
		}
		return game.Raise(qty, face), nil
	}

	prev := *v.CurrentBid
	if prob(prev) < b.LiarThreshold {
		return game.Liar(), nil
	}
	if next := (game.Bid{Quantity: prev.Quantity + 1, Face: prev.Face}); prob(next) >= b.RaiseThreshold {
		return game.Raise(next.Quantity, next.Face), nil
	}
	if next, ok := cheapestRaise(prev, b.RaiseThreshold, prob); ok {
		return game.Raise(next.Quantity, next.Face), nil
	}
	return game.Raise(prev.Quantity+1, prev.Face), nil
}
