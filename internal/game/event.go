package game

// EventKind tags a history entry.
type EventKind string

const (
	EventRaise             EventKind = "raise"
	EventLiar              EventKind = "liar"
	EventResolution        EventKind = "resolution"
	EventIllegal           EventKind = "illegal"
	EventIllegalResolution EventKind = "resolution-illegal"
	EventTurnGuard         EventKind = "turn-guard"
)

// Event is one entry of the match history. Which fields are set depends on
// Kind:
//
//   - raise: Actor, Quantity, Face, Hand, Turn
//   - liar: Actor, On, Hand, Turn
//   - resolution: On, ClaimTrue, Losers
//   - illegal: Actor
//   - resolution-illegal: On (nil for an opening call), Losers
//   - turn-guard: Actor, Losers
type Event struct {
	Kind      EventKind `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Face      int       `json:"face,omitempty"`
	On        *Bid      `json:"on,omitempty"`
	ClaimTrue *bool     `json:"claimTrue,omitempty"`
	Losers    []string  `json:"losers,omitempty"`
	Hand      int       `json:"hand,omitempty"`
	Turn      int       `json:"turn,omitempty"`
}

// History is the append-only event log of one match.
type History struct {
	events []Event
	window int
}

// NewHistory creates a log whose Window returns at most window events.
func NewHistory(window int) *History {
	return &History{window: window}
}

// Append records an event.
func (h *History) Append(e Event) {
	h.events = append(h.events, e)
}

// Len returns the number of recorded events.
func (h *History) Len() int {
	return len(h.events)
}

// Window returns a copy of the trailing events in insertion order.
func (h *History) Window() []Event {
	start := 0
	if h.window >= 0 && len(h.events) > h.window {
		start = len(h.events) - h.window
	}
	return cloneEvents(h.events[start:])
}

// Events returns a copy of the whole log.
func (h *History) Events() []Event {
	return cloneEvents(h.events)
}

func cloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		if e.On != nil {
			on := *e.On
			e.On = &on
		}
		if e.ClaimTrue != nil {
			v := *e.ClaimTrue
			e.ClaimTrue = &v
		}
		if e.Losers != nil {
			e.Losers = append([]string(nil), e.Losers...)
		}
		out[i] = e
	}
	return out
}
