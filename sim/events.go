package sim

// EventKind identifies simulation event types.
type EventKind string

const (
	EventStateChanged EventKind = "state_changed"
	EventLevelLoaded  EventKind = "level_loaded"
	EventLoadFailed   EventKind = "load_failed"
	EventLanded       EventKind = "landed"
	EventJumped       EventKind = "jumped"
)

// Event is a simulation event payload. Data holds one of StateChange,
// LoadFailure or Landing depending on Kind.
type Event struct {
	Kind EventKind
	Tick uint64
	Data any
}

type StateChange struct {
	From State
	To   State
}

type LoadFailure struct {
	Level string
	Err   error
}

type Landing struct {
	Distance float64
	Fatal    bool
}

// EventQueue is a simple FIFO queue. Presentation code drains it once per
// frame; the simulation never reads it.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
