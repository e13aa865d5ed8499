package sim

import (
	"log"
	"math"
	"strconv"
)

// Freq defines the type of frequency
type Freq float64

// Hz is the unit of frequency.
const Hz Freq = 1

// Valid returns true if the frequency is a positive finite number.
func (f Freq) Valid() bool {
	v := float64(f)
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Period returns the time between two consecutive ticks
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// HalfPeriod returns the time between two consecutive level changes of a
// square wave with the frequency.
func (f Freq) HalfPeriod() VTimeInSec {
	return f.Period() / 2
}

// String formats the frequency in Hz, for example "2.5 Hz".
func (f Freq) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64) + " Hz"
}
