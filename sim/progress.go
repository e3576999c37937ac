package sim

import "fmt"

// State is the game-progress state.
type State uint8

const (
	Loading State = iota
	Playing
	Won
	Dead
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Playing:
		return "level"
	case Won:
		return "won"
	case Dead:
		return "dead"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Terminal reports whether no movement happens in s until a reload.
func (s State) Terminal() bool {
	return s == Won || s == Dead
}

// Progress is the single writer of the game state. Each transition method
// returns false and leaves the state alone when the edge does not exist.
type Progress struct {
	state  State
	events *EventQueue
}

func NewProgress(events *EventQueue) *Progress {
	return &Progress{state: Loading, events: events}
}

func (p *Progress) State() State {
	if p == nil {
		return Loading
	}
	return p.state
}

// EnterLevel is the Loading -> Level edge.
func (p *Progress) EnterLevel(tick uint64) bool {
	return p.move(tick, Loading, Playing)
}

// Win is the Level -> Won edge.
func (p *Progress) Win(tick uint64) bool {
	return p.move(tick, Playing, Won)
}

// Die is the Level -> Dead edge.
func (p *Progress) Die(tick uint64) bool {
	return p.move(tick, Playing, Dead)
}

// Reload returns to Loading from any state so a level can be (re)delivered.
func (p *Progress) Reload(tick uint64) bool {
	if p == nil || p.state == Loading {
		return false
	}
	return p.move(tick, p.state, Loading)
}

func (p *Progress) move(tick uint64, from, to State) bool {
	if p == nil || p.state != from {
		return false
	}
	p.state = to
	p.events.Push(Event{Kind: EventStateChanged, Tick: tick, Data: StateChange{From: from, To: to}})
	return true
}
