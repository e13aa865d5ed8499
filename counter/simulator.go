package counter

import (
	"sync"

	"github.com/sarchlab/countersim/sim"
)

// State is a snapshot of everything a simulator shows.
type State struct {
	Time        sim.VTimeInSec `json:"time"`
	Level       Level          `json:"level"`
	Running     bool           `json:"running"`
	Frequency   float64        `json:"frequency_hz"`
	Bits        Bits           `json:"bits"`
	Binary      string         `json:"binary"`
	Decimal     int            `json:"decimal"`
	Segments    Segments       `json:"segments"`
	Excitation  Excitation     `json:"excitation"`
	RisingEdges uint64         `json:"rising_edges"`
}

// A Simulator is a MOD-7 counter driven by a clock.
//
// Every operation, and every clock event, runs to completion under one lock,
// so a manual input never interleaves with an edge transition.
type Simulator struct {
	sim.HookableBase
	sync.Mutex

	name     string
	engine   Scheduler
	clock    *Clock
	counter  *StateMachine
	displays []Display

	risingEdges uint64
}

// Name returns the name of the simulator.
func (s *Simulator) Name() string {
	return s.name
}

// AddDisplay registers a display and brings it up to date.
func (s *Simulator) AddDisplay(d Display) {
	s.Lock()
	defer s.Unlock()

	s.displays = append(s.displays, d)

	level := s.clock.Level()
	d.OnClockChanged(level, level.Edge())
	d.OnCounterChanged(s.counter.Bits(), s.counter.Decimal())
	d.OnSegmentsChanged(s.counter.Segments())
	d.OnExcitationChanged(s.counter.Excitation())
}

// Handle processes the clock events of the simulator.
func (s *Simulator) Handle(e sim.Event) error {
	s.Lock()
	defer s.Unlock()

	return s.clock.Handle(e)
}

// Start runs the clock at freq. It does nothing if the clock is running.
func (s *Simulator) Start(freq sim.Freq) {
	s.Lock()
	defer s.Unlock()

	s.clock.Start(freq)
}

// Stop stops the clock. It does nothing if the clock is stopped.
func (s *Simulator) Stop() {
	s.Lock()
	defer s.Unlock()

	s.clock.Stop()
}

// SinglePulse sends one clock pulse, advancing the counter once. It does
// nothing while the clock is running.
func (s *Simulator) SinglePulse() {
	s.Lock()
	defer s.Unlock()

	s.clock.SinglePulse()
}

// SetFrequency changes the clock frequency, restarting a running clock at
// the new rate.
func (s *Simulator) SetFrequency(freq sim.Freq) {
	s.Lock()
	defer s.Unlock()

	s.clock.SetFrequency(freq)
}

// SetManualInput drives one flip-flop output from a switch.
func (s *Simulator) SetManualInput(l Line, v Bit) {
	s.Lock()
	defer s.Unlock()

	from, to := s.counter.Set(l, v)
	s.counterChanged(s.engine.CurrentTime(), CauseManual, from, to)
}

// Reset stops the clock, forces it low, and clears the counter.
func (s *Simulator) Reset() {
	s.Lock()
	defer s.Unlock()

	s.clock.Reset()
	s.risingEdges = 0

	from := s.counter.Reset()
	s.counterChanged(s.engine.CurrentTime(), CauseReset, from, 0)
}

// Frequency returns the frequency of the clock.
func (s *Simulator) Frequency() sim.Freq {
	s.Lock()
	defer s.Unlock()

	return s.clock.Frequency()
}

// Running tells if the clock is running.
func (s *Simulator) Running() bool {
	s.Lock()
	defer s.Unlock()

	return s.clock.Running()
}

// State returns a snapshot of the simulator.
func (s *Simulator) State() State {
	s.Lock()
	defer s.Unlock()

	bits := s.counter.Bits()

	return State{
		Time:        s.engine.CurrentTime(),
		Level:       s.clock.Level(),
		Running:     s.clock.Running(),
		Frequency:   float64(s.clock.Frequency()),
		Bits:        bits,
		Binary:      bits.String(),
		Decimal:     s.counter.Decimal(),
		Segments:    s.counter.Segments(),
		Excitation:  s.counter.Excitation(),
		RisingEdges: s.risingEdges,
	}
}

func (s *Simulator) clockChanged(
	now sim.VTimeInSec,
	level Level,
	edge EdgeKind,
) {
	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Now:    now,
		Pos:    HookPosClockChanged,
		Item:   level,
		Detail: edge,
	})

	for _, d := range s.displays {
		d.OnClockChanged(level, edge)
	}

	if edge != Rising {
		return
	}

	s.risingEdges++
	from, to := s.counter.Advance()
	s.counterChanged(now, CauseClock, from, to)
}

func (s *Simulator) counterChanged(
	now sim.VTimeInSec,
	cause Cause,
	from, to int,
) {
	bits := s.counter.Bits()
	segments := s.counter.Segments()
	excitation := s.counter.Excitation()

	for _, d := range s.displays {
		d.OnCounterChanged(bits, to)
		d.OnSegmentsChanged(segments)
		d.OnExcitationChanged(excitation)
	}

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Now:    now,
		Pos:    HookPosCounterChanged,
		Item: Transition{
			Time:       now,
			Cause:      cause,
			From:       from,
			To:         to,
			Bits:       bits,
			Excitation: excitation,
		},
	})
}
