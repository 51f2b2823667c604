package game

import (
	"errors"
	"fmt"
)

// ActionKind tags the two possible decisions.
type ActionKind string

const (
	ActionRaise ActionKind = "raise"
	ActionLiar  ActionKind = "liar"
)

// ErrMalformedAction indicates an action that is neither a well formed raise
// nor a liar call.
var ErrMalformedAction = errors.New("malformed action")

// Action is a player's decision. Build values with Raise or Liar; the zero
// value is malformed.
type Action struct {
	Kind     ActionKind `json:"action"`
	Quantity int        `json:"quantity,omitempty"`
	Face     int        `json:"face,omitempty"`
}

// Raise returns a raise action.
func Raise(quantity, face int) Action {
	return Action{Kind: ActionRaise, Quantity: quantity, Face: face}
}

// Liar returns a liar call.
func Liar() Action {
	return Action{Kind: ActionLiar}
}

// Bid returns the bid a raise proposes.
func (a Action) Bid() Bid {
	return Bid{Quantity: a.Quantity, Face: a.Face}
}

// Validate checks the action shape. It does not check legality against the
// standing bid.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionLiar:
		if a.Quantity != 0 || a.Face != 0 {
			return fmt.Errorf("%w: liar carries a bid", ErrMalformedAction)
		}
		return nil
	case ActionRaise:
		if !a.Bid().Valid() {
			return fmt.Errorf("%w: raise %s out of range", ErrMalformedAction, a.Bid())
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrMalformedAction, a.Kind)
	}
}

func (a Action) String() string {
	if a.Kind == ActionRaise {
		return "raise " + a.Bid().String()
	}
	return string(a.Kind)
}
