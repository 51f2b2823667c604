package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/liarsdice/internal/core/dice"
)

const (
	// DefaultStartingDice is the number of dice each player starts with.
	DefaultStartingDice = 5
	// DefaultTurnGuard bounds the actions of a single hand.
	DefaultTurnGuard = 200
	// DefaultHistoryWindow bounds the trailing history sent to deciders.
	DefaultHistoryWindow = 200
)

var (
	// ErrNoSeats indicates a match was created without players.
	ErrNoSeats = errors.New("match requires at least one seat")
	// ErrInvalidSeat indicates a seat without an id or decider.
	ErrInvalidSeat = errors.New("seat requires an id and a decider")
	// ErrDuplicateSeat indicates two seats share an id.
	ErrDuplicateSeat = errors.New("seat ids must be unique")
)

// Seat binds a player id to the decider acting for it.
type Seat struct {
	ID      string
	Decider Decider
}

// Config tunes a match. Zero values select the defaults.
type Config struct {
	StartingDice  int
	TurnGuard     int
	HistoryWindow int
	Placement     PlacementTable
	Logger        *log.Logger
}

func (c Config) withDefaults() Config {
	if c.StartingDice <= 0 {
		c.StartingDice = DefaultStartingDice
	}
	if c.TurnGuard <= 0 {
		c.TurnGuard = DefaultTurnGuard
	}
	if c.HistoryWindow == 0 {
		c.HistoryWindow = DefaultHistoryWindow
	}
	if c.Placement == nil {
		c.Placement = DefaultPlacementTable
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// EliminationStep groups players that lost their last die in the same
// resolution. Step numbers increase monotonically within a match.
type EliminationStep struct {
	Step    int
	Players []string
}

// Result is the complete record of a finished match.
type Result struct {
	Seed        int64
	PlayerIDs   []string
	Winner      string
	Hands       int
	Steps       []EliminationStep
	Placements  []Placement
	Stats       []PlayerStats
	Resolutions []Resolution
	History     []Event
	TurnGuards  int
}

// PlacementFor returns the placement of the given player.
func (r Result) PlacementFor(id string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.PlayerID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// StatsFor returns the counters of the given player.
func (r Result) StatsFor(id string) (PlayerStats, bool) {
	for i, pid := range r.PlayerIDs {
		if pid == id {
			return r.Stats[i], true
		}
	}
	return PlayerStats{}, false
}

// Match repeats hands among a fixed set of seats until at most one player
// has dice left.
type Match struct {
	cfg     Config
	seed    int64
	seats   []Seat
	players []Player
	roller  *dice.Roller
	history *History
	stats   []PlayerStats
}

// NewMatch seats the players in order, each with the starting dice.
func NewMatch(seed int64, seats []Seat, cfg Config) (*Match, error) {
	if len(seats) == 0 {
		return nil, ErrNoSeats
	}
	cfg = cfg.withDefaults()
	seen := make(map[string]struct{}, len(seats))
	players := make([]Player, len(seats))
	for i, s := range seats {
		id := strings.TrimSpace(s.ID)
		if id == "" || s.Decider == nil {
			return nil, fmt.Errorf("%w: seat %d", ErrInvalidSeat, i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeat, id)
		}
		seen[id] = struct{}{}
		players[i] = Player{ID: id, DiceCount: cfg.StartingDice}
	}
	return &Match{
		cfg:     cfg,
		seed:    seed,
		seats:   append([]Seat(nil), seats...),
		players: players,
		roller:  dice.NewRoller(seed),
		history: NewHistory(cfg.HistoryWindow),
		stats:   make([]PlayerStats, len(seats)),
	}, nil
}

// Players returns a copy of the current public player state.
func (m *Match) Players() []Player {
	return append([]Player(nil), m.players...)
}

// Play runs hands until the match ends and returns its record. It only fails
// when ctx is cancelled.
func (m *Match) Play(ctx context.Context) (Result, error) {
	result := Result{Seed: m.seed, PlayerIDs: make([]string, len(m.players))}
	for i, p := range m.players {
		result.PlayerIDs[i] = p.ID
	}

	start := 0
	for m.activeCount() > 1 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		result.Hands++
		hands, err := m.roller.RollHands(m.diceCounts())
		if err != nil {
			return Result{}, fmt.Errorf("roll hand %d: %w", result.Hands, err)
		}
		hand := newHand(handParams{
			number:    result.Hands,
			seed:      m.seed,
			start:     start,
			players:   m.players,
			seats:     m.seats,
			dice:      hands,
			turnGuard: m.cfg.TurnGuard,
			history:   m.history,
			stats:     m.stats,
			logger:    m.cfg.Logger,
		})
		res, err := hand.Play(ctx)
		if err != nil {
			return Result{}, err
		}
		result.Resolutions = append(result.Resolutions, res)
		if res.Kind == ResolutionTurnGuard {
			result.TurnGuards++
		}
		if len(res.Eliminated) > 0 {
			step := EliminationStep{Step: len(result.Steps) + 1}
			for _, i := range res.Eliminated {
				step.Players = append(step.Players, m.players[i].ID)
			}
			result.Steps = append(result.Steps, step)
		}
		start = (res.Initiator + 1) % len(m.players)
	}

	for _, p := range m.players {
		if p.Active() {
			result.Winner = p.ID
		}
	}
	placements, err := Place(result.Steps, result.Winner, m.cfg.Placement)
	if err != nil {
		return Result{}, err
	}
	result.Placements = placements
	result.Stats = append([]PlayerStats(nil), m.stats...)
	result.History = m.history.Events()
	return result, nil
}

func (m *Match) activeCount() int {
	n := 0
	for _, p := range m.players {
		if p.Active() {
			n++
		}
	}
	return n
}

func (m *Match) diceCounts() []int {
	counts := make([]int, len(m.players))
	for i, p := range m.players {
		counts[i] = p.DiceCount
	}
	return counts
}
