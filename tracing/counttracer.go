package tracing

import (
	"sync"

	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/sim"
)

// CountTracer counts edges, transitions and the values the counter visits.
type CountTracer struct {
	lock        sync.Mutex
	edges       map[counter.EdgeKind]uint64
	transitions map[counter.Cause]uint64
	visits      map[int]uint64
}

// NewCountTracer creates a new CountTracer
func NewCountTracer() *CountTracer {
	return &CountTracer{
		edges:       make(map[counter.EdgeKind]uint64),
		transitions: make(map[counter.Cause]uint64),
		visits:      make(map[int]uint64),
	}
}

// ClockChanged counts an edge.
func (t *CountTracer) ClockChanged(
	_ sim.VTimeInSec,
	_ counter.Level,
	edge counter.EdgeKind,
) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.edges[edge]++
}

// CounterChanged counts a transition and the value it reaches.
func (t *CountTracer) CounterChanged(tr counter.Transition) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.transitions[tr.Cause]++
	t.visits[tr.To]++
}

// Edges returns the number of edges of a kind.
func (t *CountTracer) Edges(kind counter.EdgeKind) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.edges[kind]
}

// Transitions returns the number of transitions with a cause.
func (t *CountTracer) Transitions(cause counter.Cause) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.transitions[cause]
}

// Visits returns how many transitions ended at a value.
func (t *CountTracer) Visits(decimal int) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.visits[decimal]
}
