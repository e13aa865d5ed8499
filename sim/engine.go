package sim

// TimeTeller tells the current time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler accepts events to handle later.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler is called once when a simulation is over.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine owns the event queue and hands each event to its handler when
// the event's time comes. Events are handled one at a time, so a handler
// never races with itself.
//
// SerialEngine runs on virtual time and is used in tests and traces.
// RealTimeEngine follows the wall clock and drives interactive sessions.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run handles events until the simulation is over. A virtual-time engine
	// is over when its queue is empty. A real-time engine is over when it is
	// terminated.
	Run() error

	// Pause blocks event handling until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// RegisterSimulationEndHandler adds a handler that Finished calls.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished calls every SimulationEndHandler.
	Finished()
}
