package game

import (
	"context"

	"github.com/louisbranch/liarsdice/internal/core/dice"
)

// Player is a seat's public state.
type Player struct {
	ID        string `json:"id"`
	DiceCount int    `json:"diceCount"`
}

// Active reports whether the player still has dice.
func (p Player) Active() bool {
	return p.DiceCount > 0
}

// Self is the deciding player's private state.
type Self struct {
	ID   string `json:"id"`
	Dice []int  `json:"dice"`
}

// Rules describes the fixed rules sent with every decision request.
type Rules struct {
	Faces                      []int `json:"faces"`
	MustIncreaseQuantityOrFace bool  `json:"mustIncreaseQuantityOrFace"`
}

// DefaultRules returns a fresh copy of the game rules.
func DefaultRules() Rules {
	faces := make([]int, dice.Faces)
	for i := range faces {
		faces[i] = i + 1
	}
	return Rules{Faces: faces, MustIncreaseQuantityOrFace: true}
}

// View is the read-only snapshot handed to a decider. A new View is built for
// every decision and shares no memory with the engine.
type View struct {
	You        Self     `json:"you"`
	Players    []Player `json:"players"`
	CurrentBid *Bid     `json:"currentBid"`
	History    []Event  `json:"history"`
	Rules      Rules    `json:"rules"`
	Seed       int64    `json:"seed"`
}

// TotalDice sums dice across every player in the view.
func (v View) TotalDice() int {
	total := 0
	for _, p := range v.Players {
		total += p.DiceCount
	}
	return total
}

// Decider produces the next action for the player described by the view.
// The engine blocks on exactly one Decide call at a time per match.
type Decider interface {
	Decide(ctx context.Context, view View) Action
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, view View) Action

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, view View) Action {
	return f(ctx, view)
}
