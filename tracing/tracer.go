// Package tracing collects the clock and counter changes of a simulator.
package tracing

import (
	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/sim"
)

// A Tracer is told about every change of a traced simulator.
type Tracer interface {
	ClockChanged(now sim.VTimeInSec, level counter.Level, edge counter.EdgeKind)
	CounterChanged(t counter.Transition)
}
