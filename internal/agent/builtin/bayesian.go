package builtin

import (
	"context"
	"fmt"

	"github.com/louisbranch/liarsdice/internal/agent"
	"github.com/louisbranch/liarsdice/internal/core/dice"
	"github.com/louisbranch/liarsdice/internal/game"
)

const beliefKey = "bayesian.beliefs"

// beliefs is the Bayesian agent's model of its opponents. It lives in the
// agent Context so it carries across hands of one match.
type beliefs struct {
	hand     int
	resolved int
	lastKey  [2]int
	// expected[player][face] is the estimated count of face in the
	// player's hidden dice for the current hand.
	expected map[string]*[dice.Faces + 1]float64
	raises   map[string]int
	bluffs   map[string]int
	bidder   string
}

// Bayesian raises its estimate of a face in an opponent's cup each time the
// opponent bids that face, discounted by how often the opponent has been
// caught bluffing.
type Bayesian struct {
	LiarThreshold  float64
	RaiseThreshold float64
	// Evidence is the belief increment per observed bid.
	Evidence float64
}

// NewBayesian returns the belief-tracking strategy.
func NewBayesian() *Bayesian {
	return &Bayesian{LiarThreshold: 0.20, RaiseThreshold: 0.40, Evidence: 0.3}
}

// Init implements agent.Initializer.
func (b *Bayesian) Init(actx *agent.Context) error {
	actx.State[beliefKey] = &beliefs{
		expected: make(map[string]*[dice.Faces + 1]float64),
		raises:   make(map[string]int),
		bluffs:   make(map[string]int),
	}
	return nil
}

func loadBeliefs(actx *agent.Context) (*beliefs, error) {
	bs, ok := actx.State[beliefKey].(*beliefs)
	if !ok {
		return nil, fmt.Errorf("bayesian beliefs not initialised")
	}
	return bs, nil
}

// Decide implements agent.Strategy.
func (b *Bayesian) Decide(ctx context.Context, actx *agent.Context, v game.View) (game.Action, error) {
	bs, err := loadBeliefs(actx)
	if err != nil {
		return game.Action{}, err
	}
	b.observe(bs, v)

	t := readTable(v)
	prob := func(bid game.Bid) float64 {
		need := t.need(bid)
		if need == 0 {
			return 1
		}
		if need > t.unknown {
			return 0
		}
		mean := 0.0
		for _, p := range v.Players {
			if p.ID == v.You.ID || !p.Active() {
				continue
			}
			mean += bs.expectedFor(p)[bid.Face]
		}
		return normalTail(need, mean)
	}

	if v.CurrentBid == nil {
		face, count := t.bestFace()
		qty := max(1, count+int(float64(t.unknown)*faceProb))
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

// observe folds history events not seen before into the beliefs.
func (b *Bayesian) observe(bs *beliefs, v game.View) {
	if v.CurrentBid == nil {
		// Opening a hand: the cups were re-rolled.
		clear(bs.expected)
	}
	for _, e := range v.History {
		if e.Hand > bs.hand {
			bs.hand = e.Hand
			bs.bidder = ""
			clear(bs.expected)
		}
		switch e.Kind {
		case game.EventRaise:
			key := [2]int{e.Hand, e.Turn}
			if !after(key, bs.lastKey) {
				continue
			}
			bs.lastKey = key
			bs.bidder = e.Actor
			if e.Actor == v.You.ID {
				continue
			}
			bs.raises[e.Actor]++
			if e.Face < 1 || e.Face > dice.Faces {
				continue
			}
			weight := b.Evidence * (1 - bs.bluffRate(e.Actor))
			held := diceOf(v, e.Actor)
			row := bs.expectedFor(game.Player{ID: e.Actor, DiceCount: held})
			row[e.Face] = min(row[e.Face]+weight, float64(held))
		case game.EventResolution:
			if e.Hand <= bs.resolved {
				continue
			}
			bs.resolved = e.Hand
			if e.ClaimTrue != nil && !*e.ClaimTrue && bs.bidder != "" && bs.bidder != v.You.ID {
				bs.bluffs[bs.bidder]++
			}
			bs.bidder = ""
		}
	}
}

func (bs *beliefs) expectedFor(p game.Player) *[dice.Faces + 1]float64 {
	row, ok := bs.expected[p.ID]
	if !ok {
		row = new([dice.Faces + 1]float64)
		for f := 1; f <= dice.Faces; f++ {
			row[f] = float64(p.DiceCount) * faceProb
		}
		bs.expected[p.ID] = row
	}
	return row
}

func (bs *beliefs) bluffRate(id string) float64 {
	raises := bs.raises[id]
	if raises == 0 {
		return 0
	}
	return min(1, float64(bs.bluffs[id])/float64(raises))
}

func after(a, b [2]int) bool {
	return a[0] > b[0] || (a[0] == b[0] && a[1] > b[1])
}

func diceOf(v game.View, id string) int {
	for _, p := range v.Players {
		if p.ID == id {
			return p.DiceCount
		}
	}
	return 0
}
