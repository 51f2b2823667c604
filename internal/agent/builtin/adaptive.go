package builtin

import (
	"context"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/game"
)

// Adaptive uses exact binomial odds and shifts its thresholds with its
// standing: careful when leading, bolder when trailing, and tighter once few
// dice remain.
type Adaptive struct{}

// NewAdaptive returns the position-adaptive strategy.
func NewAdaptive() *Adaptive { return &Adaptive{} }

type thresholds struct {
	liar  float64
	raise float64
}

func positionThresholds(v game.View, mine int, total int) thresholds {
	const (
		baseLiar  = 0.18
		baseRaise = 0.38
	)
	th := thresholds{liar: baseLiar, raise: baseRaise}

	var counts []int
	sum := 0
	for _, p := range v.Players {
		if p.Active() {
			counts = append(counts, p.DiceCount)
			sum += p.DiceCount
		}
	}
	if len(counts) == 0 {
		return th
	}
	hi, lo := counts[0], counts[0]
	for _, c := range counts {
		hi = max(hi, c)
		lo = min(lo, c)
	}
	countOf := func(n int) int {
		k := 0
		for _, c := range counts {
			if c == n {
				k++
			}
		}
		return k
	}
	leading := mine == hi && countOf(hi) == 1
	trailing := mine == lo && countOf(lo) == 1
	avg := float64(sum) / float64(len(counts))

	switch {
	case leading:
		th = thresholds{liar: 0.14, raise: 0.48}
	case trailing:
		th = thresholds{liar: 0.32, raise: 0.28}
	case float64(mine) > avg:
		th = thresholds{liar: baseLiar - 0.02, raise: baseRaise + 0.05}
	default:
		th = thresholds{liar: baseLiar + 0.03, raise: baseRaise - 0.05}
	}

	if total < 10 {
		if trailing {
			th.liar = max(th.liar, 0.28)
			th.raise = min(th.raise, 0.35)
		} else {
			th.liar = max(th.liar, 0.25)
			th.raise = max(th.raise, 0.50)
		}
	}
	th.liar = max(0.12, min(0.30, th.liar))
	th.raise = max(0.30, min(0.55, th.raise))
	return th
}

// Decide implements agent.Strategy.
func (a *Adaptive) Decide(ctx context.Context, actx *agent.Context, v game.View) (game.Action, error) {
	t := readTable(v)
	th := positionThresholds(v, t.mine, t.total)
	prob := func(bid game.Bid) float64 {
		return binomialTail(t.unknown, t.need(bid), faceProb)
	}

	if v.CurrentBid == nil {
		face, count := t.bestFace()
		qty := max(1, count+int(float64(t.unknown)*faceProb*0.92))
		for qty+1 <= t.total && prob(game.Bid{Quantity: qty + 1, Face: face}) >= th.raise {
			qty++
		}
		return game.Raise(qty, face), nil
	}

	prev := *v.CurrentBid
	if prob(prev) < th.liar {
		return game.Liar(), nil
	}
	if next, ok := cheapestRaise(prev, th.raise, prob); ok {
		return game.Raise(next.Quantity, next.Face), nil
	}
	// Nothing clears the bar: challenge rather than over-commit.
	return game.Liar(), nil
}
