package tui

import (
	"sync"

	"github.com/sarchlab/countersim/counter"
)

// Snapshot is what the panel last heard from the simulator.
type Snapshot struct {
	Level      counter.Level
	Edge       counter.EdgeKind
	Bits       counter.Bits
	Decimal    int
	Segments   counter.Segments
	Excitation counter.Excitation
}

// Panel is a counter.Display that keeps the latest simulator output for the
// terminal view. The simulator writes it from the engine goroutine and the
// view reads it on every frame.
type Panel struct {
	mu       sync.Mutex
	snapshot Snapshot
	version  uint64
}

// NewPanel creates a panel that shows a reset counter.
func NewPanel() *Panel {
	segments, _ := counter.Decode(0)

	return &Panel{
		snapshot: Snapshot{Segments: segments},
	}
}

// Snapshot returns a copy of the latest state and a version that changes
// every time the simulator reports something.
func (p *Panel) Snapshot() (Snapshot, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshot, p.version
}

// OnClockChanged records the clock level.
func (p *Panel) OnClockChanged(level counter.Level, edge counter.EdgeKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot.Level = level
	p.snapshot.Edge = edge
	p.version++
}

// OnCounterChanged records the counter value.
func (p *Panel) OnCounterChanged(bits counter.Bits, decimal int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot.Bits = bits
	p.snapshot.Decimal = decimal
	p.version++
}

// OnSegmentsChanged records the seven-segment pattern.
func (p *Panel) OnSegmentsChanged(segments counter.Segments) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot.Segments = segments
	p.version++
}

// OnExcitationChanged records the JK inputs.
func (p *Panel) OnExcitationChanged(excitation counter.Excitation) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot.Excitation = excitation
	p.version++
}
