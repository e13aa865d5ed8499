package tracing

import (
	"sync"

	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/sim"
)

// TransitionLog keeps every counter transition in memory, in order.
type TransitionLog struct {
	lock        sync.Mutex
	transitions []counter.Transition
}

// NewTransitionLog creates an empty TransitionLog.
func NewTransitionLog() *TransitionLog {
	return &TransitionLog{}
}

// ClockChanged does nothing.
func (l *TransitionLog) ClockChanged(
	sim.VTimeInSec,
	counter.Level,
	counter.EdgeKind,
) {
}

// CounterChanged appends a transition.
func (l *TransitionLog) CounterChanged(t counter.Transition) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.transitions = append(l.transitions, t)
}

// Transitions returns a copy of the transitions collected so far.
func (l *TransitionLog) Transitions() []counter.Transition {
	l.lock.Lock()
	defer l.lock.Unlock()

	return append([]counter.Transition(nil), l.transitions...)
}
