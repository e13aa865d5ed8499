package counter

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/sarchlab/countersim/sim"
)

// ErrInvalidFrequency is returned by input adapters when a frequency is not a
// positive finite number. The simulator itself assumes valid frequencies.
var ErrInvalidFrequency = errors.New("frequency must be a positive number")

// UnknownEventError is returned when a handler receives an event it does not
// know how to handle.
type UnknownEventError struct {
	Event sim.Event
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("cannot handle event of type %s", reflect.TypeOf(e.Event))
}

// ValidateFrequency checks that f can drive the clock.
func ValidateFrequency(f sim.Freq) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidFrequency, float64(f))
	}

	return nil
}

// ParseFrequency reads a frequency in Hz, as typed by a user. A trailing
// "Hz" is accepted.
func ParseFrequency(s string) (sim.Freq, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "Hz"), "hz"))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}

	f := sim.Freq(v) * sim.Hz
	if err := ValidateFrequency(f); err != nil {
		return 0, err
	}

	return f, nil
}
