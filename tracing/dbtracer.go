package tracing

import (
	"log"
	"sync"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/datarecording"
	"github.com/sarchlab/countersim/sim"
)

// Tables written by the DBTracer.
const (
	TransitionTable = "counter_transitions"
	LevelTable      = "clock_levels"
)

// TransitionEntry is one row of the transition table.
type TransitionEntry struct {
	ID     string
	Time   float64
	Cause  string
	From   int
	To     int
	Binary string
	JA, KA uint8
	JB, KB uint8
	JC, KC uint8
}

// Transition turns the row back into the transition it was recorded from.
// The flip-flop outputs are rebuilt from the value the counter moved to.
func (e TransitionEntry) Transition() (counter.Transition, error) {
	var cause counter.Cause
	if err := cause.UnmarshalText([]byte(e.Cause)); err != nil {
		return counter.Transition{}, err
	}

	bits := counter.BitsOf(e.To)

	return counter.Transition{
		Time:  sim.VTimeInSec(e.Time),
		Cause: cause,
		From:  e.From,
		To:    e.To,
		Bits:  bits,
		Excitation: counter.Excitation{
			A: recordedFlipFlop(e.JA, e.KA, bits.A),
			B: recordedFlipFlop(e.JB, e.KB, bits.B),
			C: recordedFlipFlop(e.JC, e.KC, bits.C),
		},
	}, nil
}

func recordedFlipFlop(j, k uint8, q counter.Bit) counter.FlipFlop {
	return counter.FlipFlop{
		J:    counter.Bit(j),
		K:    counter.Bit(k),
		Q:    q.Normalized(),
		QBar: q.Inverted(),
	}
}

// LevelEntry is one row of the clock level table.
type LevelEntry struct {
	ID    string
	Time  float64
	Level string
	Edge  string
}

// DBTracer stores clock and counter changes through a DataRecorder.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	startTime, endTime sim.VTimeInSec

	err error
}

// NewDBTracer creates the trace tables and returns a tracer that fills them.
// The backend is flushed when the program exits.
func NewDBTracer(backend datarecording.DataRecorder) (*DBTracer, error) {
	if err := backend.CreateTable(TransitionTable, TransitionEntry{}); err != nil {
		return nil, err
	}

	if err := backend.CreateTable(LevelTable, LevelEntry{}); err != nil {
		return nil, err
	}

	t := &DBTracer{backend: backend}

	atexit.Register(func() {
		if err := t.Terminate(); err != nil {
			log.Printf("failed to flush trace: %v", err)
		}
	})

	return t, nil
}

// SetTimeRange limits tracing to changes between startTime and endTime. A
// zero bound is open.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

func (t *DBTracer) inRange(now sim.VTimeInSec) bool {
	if t.startTime > 0 && now < t.startTime {
		return false
	}

	if t.endTime > 0 && now > t.endTime {
		return false
	}

	return true
}

// ClockChanged records a level change.
func (t *DBTracer) ClockChanged(
	now sim.VTimeInSec,
	level counter.Level,
	edge counter.EdgeKind,
) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inRange(now) {
		return
	}

	t.insert(LevelTable, LevelEntry{
		ID:    sim.GetIDGenerator().Generate(),
		Time:  float64(now),
		Level: level.String(),
		Edge:  edge.String(),
	})
}

// CounterChanged records a transition.
func (t *DBTracer) CounterChanged(tr counter.Transition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inRange(tr.Time) {
		return
	}

	e := tr.Excitation

	t.insert(TransitionTable, TransitionEntry{
		ID:     sim.GetIDGenerator().Generate(),
		Time:   float64(tr.Time),
		Cause:  tr.Cause.String(),
		From:   tr.From,
		To:     tr.To,
		Binary: tr.Bits.String(),
		JA:     uint8(e.A.J),
		KA:     uint8(e.A.K),
		JB:     uint8(e.B.J),
		KB:     uint8(e.B.K),
		JC:     uint8(e.C.J),
		KC:     uint8(e.C.K),
	})
}

func (t *DBTracer) insert(table string, entry any) {
	if err := t.backend.InsertData(table, entry); err != nil && t.err == nil {
		t.err = err
	}
}

// Err returns the first error met while recording.
func (t *DBTracer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

// Terminate flushes everything recorded so far.
func (t *DBTracer) Terminate() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.backend.Flush(); err != nil {
		return err
	}

	return t.err
}
