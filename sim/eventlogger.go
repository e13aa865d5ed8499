package sim

import (
	"log"
	"reflect"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// EventLogger is a hook that prints every event before it is handled, as
// "time, event type -> handler name".
type EventLogger struct {
	*log.Logger
}

// NewEventLogger creates an EventLogger that writes to logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{Logger: logger}
}

// Func prints the event if ctx is a before-event position.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	evtType := reflect.TypeOf(evt)

	if handler, ok := evt.Handler().(Named); ok {
		h.Printf("%.10f, %s -> %s", evt.Time(), evtType, handler.Name())
		return
	}

	h.Printf("%.10f, %s", evt.Time(), evtType)
}
