package game

import (
	"context"
	"io"
	"log"
	"reflect"
	"testing"
)

// script returns a decider that replays actions in order and then calls liar.
func script(actions ...Action) Decider {
	i := 0
	return DeciderFunc(func(context.Context, View) Action {
		if i >= len(actions) {
			return Liar()
		}
		a := actions[i]
		i++
		return a
	})
}

type handFixture struct {
	hand    *Hand
	players []Player
	stats   []PlayerStats
	history *History
}

func newTestHand(t *testing.T, hands [][]int, start int, deciders ...Decider) handFixture {
	t.Helper()
	if len(hands) != len(deciders) {
		t.Fatalf("need one decider per hand")
	}
	ids := []string{"P1", "P2", "P3", "P4", "P5", "P6"}
	players := make([]Player, len(hands))
	seats := make([]Seat, len(hands))
	for i := range hands {
		players[i] = Player{ID: ids[i], DiceCount: len(hands[i])}
		seats[i] = Seat{ID: ids[i], Decider: deciders[i]}
	}
	stats := make([]PlayerStats, len(hands))
	history := NewHistory(DefaultHistoryWindow)
	h := newHand(handParams{
		number:    1,
		seed:      100,
		start:     start,
		players:   players,
		seats:     seats,
		dice:      hands,
		turnGuard: DefaultTurnGuard,
		history:   history,
		stats:     stats,
		logger:    log.New(io.Discard, "", 0),
	})
	return handFixture{hand: h, players: players, stats: stats, history: history}
}

func diceCounts(players []Player) []int {
	out := make([]int, len(players))
	for i, p := range players {
		out[i] = p.DiceCount
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fiveByFive() [][]int {
	return [][]int{
		{1, 2, 3, 4, 5},
		{6, 6, 2, 2, 1},
		{3, 3, 3, 4, 4},
		{5, 1, 2, 6, 4},
		{2, 2, 2, 2, 2},
	}
}

func TestHand_OpeningLiarIsIllegal(t *testing.T) {
	f := newTestHand(t, fiveByFive(), 0, script(Liar()), script(), script(), script(), script())

	res, err := f.hand.Play(context.Background())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if res.Kind != ResolutionIllegal {
		t.Fatalf("resolution kind = %v, want illegal", res.Kind)
	}
	if want := []int{4, 5, 5, 5, 5}; !equalInts(diceCounts(f.players), want) {
		t.Fatalf("dice counts = %v, want %v", diceCounts(f.players), want)
	}
	if res.DiceBefore != 25 || res.DiceAfter != 24 {
		t.Fatalf("dice before/after = %d/%d, want 25/24", res.DiceBefore, res.DiceAfter)
	}
	if f.stats[0].IllegalActions != 1 || f.stats[0].LiarCalls != 0 {
		t.Fatalf("stats = %+v, want one illegal action and no liar call", f.stats[0])
	}
	events := f.history.Events()
	if len(events) != 2 || events[0].Kind != EventIllegal || events[1].Kind != EventIllegalResolution {
		t.Fatalf("events = %+v", events)
	}
	if events[1].On != nil || len(events[1].Losers) != 1 || events[1].Losers[0] != "P1" {
		t.Fatalf("illegal resolution = %+v", events[1])
	}
}

func TestHand_FalseClaimCostsEveryoneButCaller(t *testing.T) {
	hands := [][]int{{4, 1, 1, 2, 2}, {4, 3, 3, 3, 3}, {5, 5, 5, 5, 5}}
	f := newTestHand(t, hands, 0, script(Raise(3, 4)), script(Liar()), script())

	res, err := f.hand.Play(context.Background())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if res.ClaimTrue || res.Count != 2 {
		t.Fatalf("claimTrue = %v count = %d, want false 2", res.ClaimTrue, res.Count)
	}
	if want := []int{4, 5, 4}; !equalInts(diceCounts(f.players), want) {
		t.Fatalf("dice counts = %v, want %v", diceCounts(f.players), want)
	}
	if res.Initiator != 1 {
		t.Fatalf("initiator = %d, want 1", res.Initiator)
	}
	if f.stats[1].LiarCalls != 1 || f.stats[1].CorrectLiarCalls != 1 {
		t.Fatalf("caller stats = %+v", f.stats[1])
	}
	if f.stats[0].Bids != 1 {
		t.Fatalf("bidder stats = %+v", f.stats[0])
	}
	events := f.history.Events()
	last := events[len(events)-1]
	if last.Kind != EventResolution || last.ClaimTrue == nil || *last.ClaimTrue {
		t.Fatalf("resolution event = %+v", last)
	}
	if len(last.Losers) != 2 || last.Losers[0] != "P1" || last.Losers[1] != "P3" {
		t.Fatalf("losers = %v, want [P1 P3]", last.Losers)
	}
}

func TestHand_TrueClaimCostsCaller(t *testing.T) {
	hands := [][]int{{4, 4}, {4, 3}, {1, 1}}
	f := newTestHand(t, hands, 0, script(Raise(3, 4)), script(Liar()), script())

	res, err := f.hand.Play(context.Background())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !res.ClaimTrue {
		t.Fatalf("claim should be true")
	}
	if want := []int{2, 1, 2}; !equalInts(diceCounts(f.players), want) {
		t.Fatalf("dice counts = %v, want %v", diceCounts(f.players), want)
	}
	if f.stats[1].CorrectLiarCalls != 0 {
		t.Fatalf("incorrect call counted as correct")
	}
}

func TestHand_IllegalRaise(t *testing.T) {
	tests := []struct {
		name  string
		hands [][]int
		want  []int
	}{
		{
			name:  "prior claim true charges offender",
			hands: [][]int{{2, 2}, {2, 5}, {6, 6}},
			want:  []int{2, 1, 2},
		},
		{
			name:  "prior claim false charges everyone else",
			hands: [][]int{{1, 1}, {3, 5}, {6, 6}},
			want:  []int{1, 2, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestHand(t, tt.hands, 0, script(Raise(3, 2)), script(Raise(3, 2)), script())
			res, err := f.hand.Play(context.Background())
			if err != nil {
				t.Fatalf("Play() error = %v", err)
			}
			if res.Kind != ResolutionIllegal || res.On == nil || *res.On != (Bid{3, 2}) {
				t.Fatalf("resolution = %+v", res)
			}
			if !equalInts(diceCounts(f.players), tt.want) {
				t.Fatalf("dice counts = %v, want %v", diceCounts(f.players), tt.want)
			}
			if f.stats[1].IllegalActions != 1 {
				t.Fatalf("offender stats = %+v", f.stats[1])
			}
		})
	}
}

func TestHand_MalformedActionFallsBackToLiar(t *testing.T) {
	hands := [][]int{{4, 4}, {4, 3}}
	f := newTestHand(t, hands, 0, script(Raise(1, 4)), script(Raise(9, 9)))

	res, err := f.hand.Play(context.Background())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if res.Kind != ResolutionChallenge || !res.ClaimTrue {
		t.Fatalf("resolution = %+v, want a true challenge", res)
	}
	if want := []int{2, 1}; !equalInts(diceCounts(f.players), want) {
		t.Fatalf("dice counts = %v, want %v", diceCounts(f.players), want)
	}
}

func TestHand_StateTransitions(t *testing.T) {
	hands := [][]int{{1}, {2}, {3}}
	f := newTestHand(t, hands, 1, script(), script(Raise(1, 2)), script(Raise(1, 3)))
	ctx := context.Background()

	if f.hand.State() != StateAwaitingOpeningBid || f.hand.Turn() != 1 {
		t.Fatalf("initial state = %v turn = %d", f.hand.State(), f.hand.Turn())
	}
	if err := f.hand.Step(ctx); err != nil {
		t.Fatal(err)
	}
	if f.hand.State() != StateAwaitingResponse || f.hand.Turn() != 2 {
		t.Fatalf("after opening state = %v turn = %d", f.hand.State(), f.hand.Turn())
	}
	if err := f.hand.Step(ctx); err != nil {
		t.Fatal(err)
	}
	if f.hand.Turn() != 0 || *f.hand.CurrentBid() != (Bid{1, 3}) {
		t.Fatalf("turn = %d bid = %v", f.hand.Turn(), f.hand.CurrentBid())
	}
	if err := f.hand.Step(ctx); err != nil {
		t.Fatal(err)
	}
	if f.hand.State() != StateHandComplete {
		t.Fatalf("state = %v, want HandComplete", f.hand.State())
	}
	if err := f.hand.Step(ctx); err != ErrHandComplete {
		t.Fatalf("Step() after completion error = %v", err)
	}
}

func TestHand_SkipsInactivePlayers(t *testing.T) {
	hands := [][]int{{1, 1}, {}, {3}}
	var sawP2 bool
	watch := DeciderFunc(func(context.Context, View) Action {
		sawP2 = true
		return Liar()
	})
	f := newTestHand(t, hands, 1, script(Raise(1, 1)), watch, script(Liar()))
	if _, err := f.hand.Play(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sawP2 {
		t.Fatal("eliminated player was asked to decide")
	}
	if f.stats[1].Hands != 0 || f.stats[0].Hands != 1 {
		t.Fatalf("hands played = %+v", f.stats)
	}
}

func TestHand_TurnGuardEliminatesTurnHolder(t *testing.T) {
	climber := DeciderFunc(func(_ context.Context, v View) Action {
		if v.CurrentBid == nil {
			return Raise(1, 1)
		}
		return Raise(v.CurrentBid.Quantity+1, v.CurrentBid.Face)
	})
	hands := [][]int{{1, 2, 3}, {4, 5, 6}}
	f := newTestHand(t, hands, 0, climber, climber)
	f.hand.turnGuard = 10

	res, err := f.hand.Play(context.Background())
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if res.Kind != ResolutionTurnGuard {
		t.Fatalf("resolution kind = %v, want turn guard", res.Kind)
	}
	if f.hand.actions != 10 {
		t.Fatalf("actions = %d, want 10", f.hand.actions)
	}
	if want := []int{0, 3}; !equalInts(diceCounts(f.players), want) {
		t.Fatalf("dice counts = %v, want %v", diceCounts(f.players), want)
	}
	if len(res.Eliminated) != 1 || res.Eliminated[0] != 0 || res.DiceLost() != 3 {
		t.Fatalf("resolution = %+v", res)
	}
	events := f.history.Events()
	if events[len(events)-1].Kind != EventTurnGuard {
		t.Fatalf("last event = %+v", events[len(events)-1])
	}
}

func TestHand_ViewIsIsolated(t *testing.T) {
	hands := [][]int{{2, 2}, {3, 3}}
	var seen View
	capture := DeciderFunc(func(_ context.Context, v View) Action {
		seen = v
		v.You.Dice[0] = 6
		v.Players[0].DiceCount = 99
		return Liar()
	})
	f := newTestHand(t, hands, 0, script(Raise(1, 2)), capture)
	if _, err := f.hand.Play(context.Background()); err != nil {
		t.Fatal(err)
	}
	if hands[1][0] != 3 {
		t.Fatal("decider mutated hidden dice")
	}
	if seen.You.ID != "P2" || seen.CurrentBid == nil || *seen.CurrentBid != (Bid{1, 2}) {
		t.Fatalf("view = %+v", seen)
	}
	if seen.Seed != 100+1000+1 {
		t.Fatalf("view seed = %d, want %d", seen.Seed, 100+1000+1)
	}
	if len(seen.History) != 1 || seen.History[0].Kind != EventRaise {
		t.Fatalf("view history = %+v", seen.History)
	}
	if !seen.Rules.MustIncreaseQuantityOrFace || len(seen.Rules.Faces) != 6 {
		t.Fatalf("rules = %+v", seen.Rules)
	}
}

func TestHand_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newTestHand(t, [][]int{{1}, {2}}, 0, script(), script())
	if err := f.hand.Step(ctx); err != context.Canceled {
		t.Fatalf("Step() error = %v, want context.Canceled", err)
	}
}

func TestHand_DecisionSeedFollowsSeatCursor(t *testing.T) {
	var seeds []int64
	record := func(actions ...Action) Decider {
		next := script(actions...)
		return DeciderFunc(func(ctx context.Context, v View) Action {
			seeds = append(seeds, v.Seed)
			return next.Decide(ctx, v)
		})
	}
	// P2 is out, so the cursor skips seat 1 and keeps counting past the
	// table size when the turn wraps back to P1.
	hands := [][]int{{1, 2}, {}, {3, 4}}
	f := newTestHand(t, hands, 0,
		record(Raise(1, 2)),
		record(),
		record(Raise(2, 2)),
	)
	if _, err := f.hand.Play(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []int64{1100, 1102, 1103}
	if !reflect.DeepEqual(seeds, want) {
		t.Fatalf("seeds = %v, want %v", seeds, want)
	}
}
