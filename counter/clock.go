package counter

import (
	"github.com/sarchlab/countersim/sim"
)

// DefaultPulseWidth is how long a single pulse keeps the clock high.
const DefaultPulseWidth sim.VTimeInSec = 0.2

// Scheduler is the part of a sim engine that the clock needs.
type Scheduler interface {
	sim.TimeTeller
	sim.EventScheduler
}

// A ClockListener is told about every level change of a Clock.
type ClockListener interface {
	ClockChanged(now sim.VTimeInSec, level Level, edge EdgeKind)
}

// ClockListenerFunc adapts a function to a ClockListener.
type ClockListenerFunc func(now sim.VTimeInSec, level Level, edge EdgeKind)

// ClockChanged calls f.
func (f ClockListenerFunc) ClockChanged(
	now sim.VTimeInSec,
	level Level,
	edge EdgeKind,
) {
	f(now, level, edge)
}

// ToggleEvent flips the level of a running clock.
type ToggleEvent struct {
	*sim.EventBase
	epoch uint64
}

// PulseReleaseEvent brings the clock back low after a single pulse.
type PulseReleaseEvent struct {
	*sim.EventBase
	pulse uint64
}

// A Clock generates a square wave, either free running at a frequency or one
// pulse at a time.
//
// A running clock toggles its level every half period. Stopping the clock
// does not cancel the toggle that is already scheduled. Instead, every start
// opens a new epoch and toggles from an older epoch are dropped when they
// fire.
type Clock struct {
	handler  sim.Handler
	engine   Scheduler
	listener ClockListener

	freq       sim.Freq
	pulseWidth sim.VTimeInSec

	level   Level
	running bool
	epoch   uint64
	pulse   uint64

	risen    bool
	lastRise sim.VTimeInSec
}

// NewClock creates a stopped, low clock. The handler receives the events of
// the clock and must pass them to Clock.Handle. A nil handler makes the clock
// handle its own events.
func NewClock(
	handler sim.Handler,
	engine Scheduler,
	freq sim.Freq,
	listener ClockListener,
) *Clock {
	c := &Clock{
		handler:    handler,
		engine:     engine,
		listener:   listener,
		freq:       freq,
		pulseWidth: DefaultPulseWidth,
	}

	if c.handler == nil {
		c.handler = c
	}

	return c
}

// Level returns the current level of the clock.
func (c *Clock) Level() Level {
	return c.level
}

// Running tells if the clock is free running.
func (c *Clock) Running() bool {
	return c.running
}

// Frequency returns the frequency the clock runs, or will run, at.
func (c *Clock) Frequency() sim.Freq {
	return c.freq
}

// PulseWidth returns how long a single pulse stays high.
func (c *Clock) PulseWidth() sim.VTimeInSec {
	return c.pulseWidth
}

// SetPulseWidth changes how long later single pulses stay high.
func (c *Clock) SetPulseWidth(w sim.VTimeInSec) {
	c.pulseWidth = w
}

// Start makes the clock toggle every half period of freq, starting half a
// period from now. Starting a running clock does nothing. The frequency must
// be valid.
func (c *Clock) Start(freq sim.Freq) {
	if c.running {
		return
	}

	c.running = true
	c.freq = freq
	c.epoch++
	c.risen = false

	c.scheduleToggle(c.engine.CurrentTime() + freq.HalfPeriod())
}

// Stop stops a running clock and leaves the level where it is.
func (c *Clock) Stop() {
	if !c.running {
		return
	}

	c.running = false
	c.epoch++
}

// SetFrequency changes the frequency. A running clock restarts right away at
// the new frequency, keeping its level, and no older toggle fires after the
// change. The next toggle comes half a new period from now, but a low clock
// never rises sooner than one new period after its last rising edge.
func (c *Clock) SetFrequency(freq sim.Freq) {
	if !c.running {
		c.freq = freq
		return
	}

	now := c.engine.CurrentTime()
	next := now + freq.HalfPeriod()

	if c.level == Low && c.risen {
		if earliest := c.lastRise + freq.Period(); earliest > next {
			next = earliest
		}
	}

	c.freq = freq
	c.epoch++
	c.scheduleToggle(next)
}

// SinglePulse raises the level of a stopped clock and lowers it again after
// the pulse width. The rising edge is reported before SinglePulse returns.
// It does nothing while the clock is running.
func (c *Clock) SinglePulse() {
	if c.running {
		return
	}

	now := c.engine.CurrentTime()

	c.pulse++
	release := &PulseReleaseEvent{
		EventBase: sim.NewEventBase(now+c.pulseWidth, c.handler),
		pulse:     c.pulse,
	}
	c.engine.Schedule(release)

	c.setLevel(now, High)
}

// Reset stops the clock and forces the level low. A pending pulse release
// will no longer apply.
func (c *Clock) Reset() {
	c.Stop()
	c.pulse++
	c.setLevel(c.engine.CurrentTime(), Low)
}

// Handle processes the events of the clock.
func (c *Clock) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *ToggleEvent:
		c.handleToggle(evt)
	case *PulseReleaseEvent:
		c.handlePulseRelease(evt)
	default:
		return &UnknownEventError{Event: e}
	}

	return nil
}

func (c *Clock) handleToggle(evt *ToggleEvent) {
	if !c.running || evt.epoch != c.epoch {
		return
	}

	c.setLevel(evt.Time(), c.level.Toggled())

	if c.running && evt.epoch == c.epoch {
		c.scheduleToggle(evt.Time() + c.freq.HalfPeriod())
	}
}

func (c *Clock) handlePulseRelease(evt *PulseReleaseEvent) {
	if evt.pulse != c.pulse || c.level != High {
		return
	}

	c.setLevel(evt.Time(), Low)
}

func (c *Clock) scheduleToggle(t sim.VTimeInSec) {
	evt := &ToggleEvent{
		EventBase: sim.NewEventBase(t, c.handler),
		epoch:     c.epoch,
	}
	c.engine.Schedule(evt)
}

func (c *Clock) setLevel(now sim.VTimeInSec, level Level) {
	c.level = level

	if level == High {
		c.risen = true
		c.lastRise = now
	}

	if c.listener != nil {
		c.listener.ClockChanged(now, level, level.Edge())
	}
}
