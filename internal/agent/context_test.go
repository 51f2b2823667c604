package agent

import (
	"errors"
	"testing"
)

func TestContextCloseOrderAndErrors(t *testing.T) {
	t.Parallel()

	var order []int
	c := NewContext("baseline", "P1", 9)
	c.OnClose(func() error { order = append(order, 1); return errors.New("first") })
	c.OnClose(nil)
	c.OnClose(func() error { order = append(order, 2); return nil })

	err := c.Close()
	if err == nil || err.Error() != "first" {
		t.Fatalf("close error = %v", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("closers ran in order %v, want [2 1]", order)
	}
	if !c.Closed() {
		t.Fatal("expected closed")
	}
}

func TestContextRandIsPerPlayerAndDeterministic(t *testing.T) {
	t.Parallel()

	a := NewContext("x", "P1", 100)
	b := NewContext("x", "P1", 100)
	c := NewContext("x", "P2", 100)
	if a.Rand.Uint32() != b.Rand.Uint32() {
		t.Fatal("same player and seed should share a stream")
	}
	a2 := NewContext("x", "P1", 100)
	if a2.Rand.Uint32() == c.Rand.Uint32() {
		t.Fatal("different players should get different streams")
	}
}

func TestFaultCounts(t *testing.T) {
	t.Parallel()

	c := FaultCounts{FaultTimeout: 2}
	c.Add(FaultCounts{FaultTimeout: 1, FaultPanic: 1})
	if c.Total() != 4 {
		t.Fatalf("total = %d", c.Total())
	}
	if got := c.String(); got != "panic=1 timeout=3" {
		t.Fatalf("string = %q", got)
	}
}
