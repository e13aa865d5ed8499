package counter

import (
	"fmt"

	"github.com/sarchlab/countersim/sim"
)

// HookPosClockChanged marks a level change of the clock. The hook item is the
// new Level and the detail is the EdgeKind.
var HookPosClockChanged = &sim.HookPos{Name: "ClockChanged"}

// HookPosCounterChanged marks a change of the counter outputs. The hook item
// is a Transition.
var HookPosCounterChanged = &sim.HookPos{Name: "CounterChanged"}

// Cause tells what changed the counter.
type Cause int

// The causes of a counter change.
const (
	CauseClock Cause = iota
	CauseManual
	CauseReset
)

// String returns the name of the cause.
func (c Cause) String() string {
	switch c {
	case CauseClock:
		return "clock"
	case CauseManual:
		return "manual"
	case CauseReset:
		return "reset"
	default:
		return "unknown"
	}
}

// MarshalText encodes the cause as its name.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a cause name.
func (c *Cause) UnmarshalText(text []byte) error {
	for _, cause := range []Cause{CauseClock, CauseManual, CauseReset} {
		if cause.String() == string(text) {
			*c = cause
			return nil
		}
	}

	return fmt.Errorf("unknown cause %q", text)
}

// A Transition describes one change of the counter.
type Transition struct {
	Time       sim.VTimeInSec `json:"time"`
	Cause      Cause          `json:"cause"`
	From       int            `json:"from"`
	To         int            `json:"to"`
	Bits       Bits           `json:"bits"`
	Excitation Excitation     `json:"excitation"`
}
