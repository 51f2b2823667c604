package game

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestPlace_NoTies(t *testing.T) {
	steps := []EliminationStep{
		{Step: 1, Players: []string{"P3"}},
		{Step: 2, Players: []string{"P1"}},
		{Step: 3, Players: []string{"P4"}},
		{Step: 4, Players: []string{"P5"}},
	}
	placements, err := Place(steps, "P2", DefaultPlacementTable)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	wantOrder := []string{"P2", "P5", "P4", "P1", "P3"}
	wantPoints := []float64{100, 55, 35, 20, 5}
	total := 0.0
	for i, p := range placements {
		if p.PlayerID != wantOrder[i] || p.RankLo != i+1 || p.RankHi != i+1 {
			t.Fatalf("placement[%d] = %+v", i, p)
		}
		if p.Points != wantPoints[i] {
			t.Fatalf("placement[%d] points = %v, want %v", i, p.Points, wantPoints[i])
		}
		total += p.Points
	}
	if total != DefaultPlacementTable.Sum(1, 5) {
		t.Fatalf("total = %v, want %v", total, DefaultPlacementTable.Sum(1, 5))
	}
}

func TestPlace_TieGroupAveragesRange(t *testing.T) {
	steps := []EliminationStep{
		{Step: 1, Players: []string{"P6"}},
		{Step: 2, Players: []string{"P1", "P3", "P4"}},
		{Step: 3, Players: []string{"P5"}},
	}
	placements, err := Place(steps, "P2", DefaultPlacementTable)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if len(placements) != 6 {
		t.Fatalf("got %d placements", len(placements))
	}

	byID := make(map[string]Placement)
	for _, p := range placements {
		byID[p.PlayerID] = p
	}
	if p := byID["P6"]; p.RankLo != 6 || p.Points != 0 {
		t.Fatalf("P6 = %+v", p)
	}
	if p := byID["P5"]; p.RankLo != 2 || p.Points != 55 {
		t.Fatalf("P5 = %+v", p)
	}
	wantAvg := (35.0 + 20 + 5) / 3
	groupTotal := 0.0
	for _, id := range []string{"P1", "P3", "P4"} {
		p := byID[id]
		if p.RankLo != 3 || p.RankHi != 5 || !p.Tied() {
			t.Fatalf("%s = %+v, want ranks 3-5", id, p)
		}
		if math.Abs(p.Points-wantAvg) > epsilon {
			t.Fatalf("%s points = %v, want %v", id, p.Points, wantAvg)
		}
		if p.FinishRank() != 4 {
			t.Fatalf("%s finish rank = %v, want 4", id, p.FinishRank())
		}
		groupTotal += p.Points
	}
	if math.Abs(groupTotal-DefaultPlacementTable.Sum(3, 5)) > epsilon {
		t.Fatalf("group total = %v, want %v", groupTotal, DefaultPlacementTable.Sum(3, 5))
	}

	total := 0.0
	for _, p := range placements {
		total += p.Points
	}
	if math.Abs(total-DefaultPlacementTable.Sum(1, 6)) > epsilon {
		t.Fatalf("total = %v, want %v", total, DefaultPlacementTable.Sum(1, 6))
	}
	if placements[0].PlayerID != "P2" || placements[1].PlayerID != "P5" || placements[2].PlayerID != "P1" {
		t.Fatalf("order = %+v", placements)
	}
}

func TestPlace_NoWinner(t *testing.T) {
	steps := []EliminationStep{
		{Step: 1, Players: []string{"P1"}},
		{Step: 2, Players: []string{"P2", "P3"}},
	}
	placements, err := Place(steps, "", DefaultPlacementTable)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if placements[0].RankLo != 1 || placements[0].RankHi != 2 || placements[0].Points != 77.5 {
		t.Fatalf("top placement = %+v", placements[0])
	}
}

func TestPlace_Duplicate(t *testing.T) {
	steps := []EliminationStep{{Step: 1, Players: []string{"P1"}}}
	if _, err := Place(steps, "P1", DefaultPlacementTable); !errors.Is(err, ErrDuplicatePlacement) {
		t.Fatalf("Place() error = %v, want ErrDuplicatePlacement", err)
	}
}

func TestPlacementTable_PointsBeyondTable(t *testing.T) {
	if got := DefaultPlacementTable.Points(6); got != 0 {
		t.Fatalf("Points(6) = %v, want 0", got)
	}
	if got := DefaultPlacementTable.Points(0); got != 0 {
		t.Fatalf("Points(0) = %v, want 0", got)
	}
	if got := DefaultPlacementTable.Average(4, 7); got != 6.25 {
		t.Fatalf("Average(4, 7) = %v, want 6.25", got)
	}
}
