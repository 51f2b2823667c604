package game

import (
	"context"
	"errors"
	"log"
)

// State is a phase of the bidding state machine.
type State int

const (
	StateAwaitingOpeningBid State = iota
	StateAwaitingResponse
	StateResolving
	StateHandComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingOpeningBid:
		return "AwaitingOpeningBid"
	case StateAwaitingResponse:
		return "AwaitingResponse"
	case StateResolving:
		return "Resolving"
	case StateHandComplete:
		return "HandComplete"
	default:
		return "Unknown"
	}
}

// ResolutionKind tells how a hand ended.
type ResolutionKind int

const (
	// ResolutionChallenge follows a liar call on a standing bid.
	ResolutionChallenge ResolutionKind = iota + 1
	// ResolutionIllegal follows an illegal raise or an opening liar call.
	ResolutionIllegal
	// ResolutionTurnGuard follows a hand that exceeded the action bound.
	ResolutionTurnGuard
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionChallenge:
		return "challenge"
	case ResolutionIllegal:
		return "illegal"
	case ResolutionTurnGuard:
		return "turn-guard"
	default:
		return "unknown"
	}
}

// ErrHandComplete is returned when stepping a hand that already resolved.
var ErrHandComplete = errors.New("hand is complete")

// Resolution records how one hand ended and what it cost.
type Resolution struct {
	Kind       ResolutionKind
	Hand       int
	Initiator  int
	On         *Bid
	ClaimTrue  bool
	Count      int
	Losers     []int
	Eliminated []int
	DiceBefore int
	DiceAfter  int
}

// DiceLost returns the dice removed by the resolution.
func (r Resolution) DiceLost() int {
	return r.DiceBefore - r.DiceAfter
}

// PlayerStats counts one player's activity within a match.
type PlayerStats struct {
	Hands            int
	Bids             int
	LiarCalls        int
	CorrectLiarCalls int
	IllegalActions   int
	DiceLost         int
}

// Add accumulates other into s.
func (s *PlayerStats) Add(other PlayerStats) {
	s.Hands += other.Hands
	s.Bids += other.Bids
	s.LiarCalls += other.LiarCalls
	s.CorrectLiarCalls += other.CorrectLiarCalls
	s.IllegalActions += other.IllegalActions
	s.DiceLost += other.DiceLost
}

// Hand drives one bidding sequence from the roll to its resolution.
//
// The players slice is shared with the owning match: resolving a hand
// mutates dice counts in place.
type Hand struct {
	number     int
	seed       int64
	players    []Player
	seats      []Seat
	dice       [][]int
	turn       int
	cursor     int
	state      State
	current    *Bid
	actions    int
	turnGuard  int
	history    *History
	stats      []PlayerStats
	logger     *log.Logger
	resolution *Resolution
}

type handParams struct {
	number    int
	seed      int64
	start     int
	players   []Player
	seats     []Seat
	dice      [][]int
	turnGuard int
	history   *History
	stats     []PlayerStats
	logger    *log.Logger
}

func newHand(p handParams) *Hand {
	h := &Hand{
		number:    p.number,
		seed:      p.seed,
		players:   p.players,
		seats:     p.seats,
		dice:      p.dice,
		state:     StateAwaitingOpeningBid,
		turnGuard: p.turnGuard,
		history:   p.history,
		stats:     p.stats,
		logger:    p.logger,
	}
	h.seatFrom(p.start)
	for i, pl := range h.players {
		if pl.Active() {
			h.stats[i].Hands++
		}
	}
	return h
}

// State returns the current phase.
func (h *Hand) State() State {
	return h.state
}

// Turn returns the seat index holding the turn.
func (h *Hand) Turn() int {
	return h.turn
}

// CurrentBid returns a copy of the standing bid, or nil before the opening.
func (h *Hand) CurrentBid() *Bid {
	if h.current == nil {
		return nil
	}
	b := *h.current
	return &b
}

// Resolution returns the outcome once the hand is complete.
func (h *Hand) Resolution() (Resolution, bool) {
	if h.resolution == nil {
		return Resolution{}, false
	}
	return *h.resolution, true
}

// Step asks the player holding the turn for one action and applies it.
func (h *Hand) Step(ctx context.Context) error {
	if h.state == StateHandComplete {
		return ErrHandComplete
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.actions >= h.turnGuard {
		h.forceEliminate()
		return nil
	}
	h.actions++
	actor := h.turn
	action := h.seats[actor].Decider.Decide(ctx, h.view(actor))
	if err := ctx.Err(); err != nil {
		return err
	}
	if action.Validate() != nil {
		action = Liar()
	}
	h.apply(actor, action)
	return nil
}

// Play steps the hand until it completes.
func (h *Hand) Play(ctx context.Context) (Resolution, error) {
	for h.state != StateHandComplete {
		if err := h.Step(ctx); err != nil {
			return Resolution{}, err
		}
	}
	return *h.resolution, nil
}

func (h *Hand) view(actor int) View {
	players := make([]Player, len(h.players))
	copy(players, h.players)
	return View{
		You: Self{
			ID:   h.players[actor].ID,
			Dice: append([]int{}, h.dice[actor]...),
		},
		Players:    players,
		CurrentBid: h.CurrentBid(),
		History:    h.history.Window(),
		Rules:      DefaultRules(),
		Seed:       h.seed + int64(h.number)*1000 + int64(h.cursor),
	}
}

func (h *Hand) apply(actor int, action Action) {
	id := h.players[actor].ID
	if action.Kind == ActionLiar {
		if h.current == nil {
			h.resolveIllegal(actor)
			return
		}
		h.stats[actor].LiarCalls++
		on := *h.current
		h.history.Append(Event{Kind: EventLiar, Actor: id, On: &on, Hand: h.number, Turn: h.actions})
		h.resolveChallenge(actor)
		return
	}

	bid := action.Bid()
	if !LegalRaise(h.current, bid) {
		h.resolveIllegal(actor)
		return
	}
	h.stats[actor].Bids++
	h.current = &bid
	h.history.Append(Event{
		Kind:     EventRaise,
		Actor:    id,
		Quantity: bid.Quantity,
		Face:     bid.Face,
		Hand:     h.number,
		Turn:     h.actions,
	})
	h.state = StateAwaitingResponse
	h.seatFrom(h.cursor + 1)
}

// resolveChallenge settles a liar call. A true claim costs the caller one
// die; a false claim costs every other active player one die.
func (h *Hand) resolveChallenge(caller int) {
	h.state = StateResolving
	on := *h.current
	claimTrue, count := ClaimTrue(h.dice, on)
	losers := []int{caller}
	if !claimTrue {
		losers = h.activeExcept(caller)
		h.stats[caller].CorrectLiarCalls++
	}
	res := h.settle(Resolution{
		Kind:      ResolutionChallenge,
		Initiator: caller,
		On:        &on,
		ClaimTrue: claimTrue,
		Count:     count,
		Losers:    losers,
	}, 1)
	h.history.Append(Event{
		Kind:      EventResolution,
		On:        &on,
		ClaimTrue: &claimTrue,
		Losers:    h.ids(res.Losers),
		Hand:      h.number,
	})
}

// resolveIllegal settles an illegal action by evaluating the standing bid as
// if it had been challenged. With no standing bid the offender pays.
func (h *Hand) resolveIllegal(offender int) {
	h.state = StateResolving
	h.stats[offender].IllegalActions++
	h.history.Append(Event{Kind: EventIllegal, Actor: h.players[offender].ID, Hand: h.number, Turn: h.actions})

	res := Resolution{Kind: ResolutionIllegal, Initiator: offender, Losers: []int{offender}}
	if h.current != nil {
		on := *h.current
		claimTrue, count := ClaimTrue(h.dice, on)
		res.On = &on
		res.ClaimTrue = claimTrue
		res.Count = count
		if !claimTrue {
			res.Losers = h.activeExcept(offender)
		}
	}
	res = h.settle(res, 1)
	h.history.Append(Event{
		Kind:   EventIllegalResolution,
		On:     res.On,
		Losers: h.ids(res.Losers),
		Hand:   h.number,
	})
}

// forceEliminate ends a runaway hand by removing every die of the player
// holding the turn.
func (h *Hand) forceEliminate() {
	h.state = StateResolving
	actor := h.turn
	h.logger.Printf("turn guard: hand %d exceeded %d actions, eliminating %s", h.number, h.turnGuard, h.players[actor].ID)
	res := h.settle(Resolution{
		Kind:      ResolutionTurnGuard,
		Initiator: actor,
		On:        h.CurrentBid(),
		Losers:    []int{actor},
	}, h.players[actor].DiceCount)
	h.history.Append(Event{
		Kind:   EventTurnGuard,
		Actor:  h.players[actor].ID,
		Losers: h.ids(res.Losers),
		Hand:   h.number,
	})
}

// settle removes cost dice from each loser and completes the hand.
func (h *Hand) settle(res Resolution, cost int) Resolution {
	res.Hand = h.number
	res.DiceBefore = h.totalDice()
	for _, i := range res.Losers {
		lost := min(cost, h.players[i].DiceCount)
		h.players[i].DiceCount -= lost
		h.stats[i].DiceLost += lost
		if h.players[i].DiceCount == 0 {
			res.Eliminated = append(res.Eliminated, i)
		}
	}
	res.DiceAfter = h.totalDice()
	h.resolution = &res
	h.state = StateHandComplete
	return res
}

func (h *Hand) totalDice() int {
	total := 0
	for _, p := range h.players {
		total += p.DiceCount
	}
	return total
}

func (h *Hand) activeExcept(skip int) []int {
	var out []int
	for i, p := range h.players {
		if i != skip && p.Active() {
			out = append(out, i)
		}
	}
	return out
}

// seatFrom hands the turn to the first active seat at or after cursor. The
// cursor keeps counting past the table size and every skipped seat; it feeds
// the decision seed.
func (h *Hand) seatFrom(cursor int) {
	n := len(h.players)
	for k := 0; k < n; k++ {
		if h.players[(cursor+k)%n].Active() {
			h.cursor = cursor + k
			h.turn = h.cursor % n
			return
		}
	}
	h.cursor = cursor
	h.turn = cursor % n
}

func (h *Hand) ids(indexes []int) []string {
	out := make([]string, len(indexes))
	for i, idx := range indexes {
		out[i] = h.players[idx].ID
	}
	return out
}
