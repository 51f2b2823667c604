package game

import (
	"fmt"

	"github.com/louisbranch/liarsdice/internal/core/dice"
)

// Bid claims that at least Quantity dice among all dice in play show Face.
type Bid struct {
	Quantity int `json:"quantity"`
	Face     int `json:"face"`
}

// Valid reports whether the bid is well formed on its own.
func (b Bid) Valid() bool {
	return b.Quantity >= 1 && b.Face >= 1 && b.Face <= dice.Faces
}

// Beats reports whether b is a legal raise over prev: a higher quantity, or
// the same quantity on a higher face.
func (b Bid) Beats(prev Bid) bool {
	return b.Quantity > prev.Quantity || (b.Quantity == prev.Quantity && b.Face > prev.Face)
}

func (b Bid) String() string {
	return fmt.Sprintf("%dx%d", b.Quantity, b.Face)
}

// LegalRaise reports whether next may be bid when prev is the standing bid.
// A nil prev means the hand has no bid yet.
func LegalRaise(prev *Bid, next Bid) bool {
	if !next.Valid() {
		return false
	}
	if prev == nil {
		return true
	}
	return next.Beats(*prev)
}

// ClaimTrue evaluates bid against every hidden hand.
func ClaimTrue(hands [][]int, bid Bid) (bool, int) {
	count := dice.CountFace(hands, bid.Face)
	return count >= bid.Quantity, count
}
