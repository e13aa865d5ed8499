package counter

import (
	"github.com/sarchlab/countersim/sim"
)

// Builder can build Simulators.
type Builder struct {
	engine     Scheduler
	freq       sim.Freq
	pulseWidth sim.VTimeInSec
	displays   []Display
}

// MakeBuilder creates a builder with a 1 Hz clock and the default pulse
// width.
func MakeBuilder() Builder {
	return Builder{
		freq:       1 * sim.Hz,
		pulseWidth: DefaultPulseWidth,
	}
}

// WithEngine sets the engine that schedules the clock events.
func (b Builder) WithEngine(engine Scheduler) Builder {
	b.engine = engine
	return b
}

// WithFrequency sets the initial clock frequency.
func (b Builder) WithFrequency(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithPulseWidth sets how long a single pulse stays high.
func (b Builder) WithPulseWidth(w sim.VTimeInSec) Builder {
	b.pulseWidth = w
	return b
}

// WithDisplay adds a display to the simulator.
func (b Builder) WithDisplay(d Display) Builder {
	b.displays = append(append([]Display(nil), b.displays...), d)
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not set")
	}

	if err := ValidateFrequency(b.freq); err != nil {
		panic(err)
	}

	if b.pulseWidth <= 0 {
		panic("pulse width must be positive")
	}
}

// Build creates a Simulator with the given name. The simulator starts at 000
// with the clock low and stopped.
func (b Builder) Build(name string) *Simulator {
	b.parametersMustBeValid()

	s := &Simulator{
		name:    name,
		engine:  b.engine,
		counter: NewStateMachine(),
	}

	s.clock = NewClock(s, b.engine, b.freq, ClockListenerFunc(s.clockChanged))
	s.clock.SetPulseWidth(b.pulseWidth)

	for _, d := range b.displays {
		s.AddDisplay(d)
	}

	return s
}
