package sim

// VTimeInSec is a point in simulated time, in seconds. For a real-time
// engine it is the wall-clock time since the engine was created.
type VTimeInSec float64

// An Event is something that happens to one Handler at one time.
type Event interface {
	Time() VTimeInSec
	Handler() Handler

	// IsSecondary tells if the event waits until every primary event of the
	// same time is handled.
	IsSecondary() bool
}

// EventBase implements Event. Embed a pointer to it in concrete events.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates a primary event for handler at time t.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// NewSecondaryEventBase creates a secondary event for handler at time t.
func NewSecondaryEventBase(t VTimeInSec, handler Handler) *EventBase {
	e := NewEventBase(t, handler)
	e.secondary = true

	return e
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns who handles the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary tells if the event is secondary.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler reacts to events. An engine never calls one handler from two
// goroutines at the same time, and a handler only changes its own state.
type Handler interface {
	Handle(e Event) error
}
