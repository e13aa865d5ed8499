package counter

import (
	"fmt"
	"strings"
)

// Bit is the logic value of a single line. Any non-zero value counts as 1.
type Bit uint8

// Normalized returns the bit as 0 or 1.
func (b Bit) Normalized() Bit {
	if b != 0 {
		return 1
	}

	return 0
}

// Inverted returns the complement of the bit.
func (b Bit) Inverted() Bit {
	return 1 - b.Normalized()
}

// Line names one of the three flip-flops of the counter.
type Line int

// The lines of the counter, from the most significant one.
const (
	LineA Line = iota
	LineB
	LineC
)

// Lines lists all the lines in the order of significance.
var Lines = []Line{LineA, LineB, LineC}

// String returns the name of the line.
func (l Line) String() string {
	switch l {
	case LineA:
		return "A"
	case LineB:
		return "B"
	case LineC:
		return "C"
	default:
		return fmt.Sprintf("Line(%d)", int(l))
	}
}

// ParseLine converts a line name (case insensitive) into a Line.
func ParseLine(s string) (Line, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return LineA, nil
	case "B":
		return LineB, nil
	case "C":
		return LineC, nil
	default:
		return 0, fmt.Errorf("unknown counter line %q", s)
	}
}

// Bits are the outputs of the three flip-flops.
type Bits struct {
	A Bit `json:"a"`
	B Bit `json:"b"`
	C Bit `json:"c"`
}

// BitsOf converts a value in [0, 7] into flip-flop outputs.
func BitsOf(decimal int) Bits {
	return Bits{
		A: Bit((decimal / 4) % 2),
		B: Bit((decimal / 2) % 2),
		C: Bit(decimal % 2),
	}
}

// Decimal returns the value the bits represent, A*4 + B*2 + C.
func (b Bits) Decimal() int {
	return int(b.A.Normalized())*4 +
		int(b.B.Normalized())*2 +
		int(b.C.Normalized())
}

// Get returns the output of one line.
func (b Bits) Get(l Line) Bit {
	switch l {
	case LineA:
		return b.A
	case LineB:
		return b.B
	case LineC:
		return b.C
	default:
		return 0
	}
}

// With returns a copy of the bits with one line set. Unknown lines leave the
// bits unchanged.
func (b Bits) With(l Line, v Bit) Bits {
	v = v.Normalized()

	switch l {
	case LineA:
		b.A = v
	case LineB:
		b.B = v
	case LineC:
		b.C = v
	}

	return b
}

// String formats the bits as a binary number, for example "011".
func (b Bits) String() string {
	return fmt.Sprintf("%d%d%d",
		b.A.Normalized(), b.B.Normalized(), b.C.Normalized())
}

// LEDText describes an output LED, for example "1 (HIGH)".
func LEDText(b Bit) string {
	if b.Normalized() == 1 {
		return "1 (HIGH)"
	}

	return "0 (LOW)"
}

// Level is the logic level of the clock signal.
type Level int

// The clock levels.
const (
	Low Level = iota
	High
)

// Toggled returns the opposite level.
func (l Level) Toggled() Level {
	if l == High {
		return Low
	}

	return High
}

// Edge returns the kind of edge that leads to the level.
func (l Level) Edge() EdgeKind {
	if l == High {
		return Rising
	}

	return Falling
}

// String returns "HIGH" or "LOW".
func (l Level) String() string {
	if l == High {
		return "HIGH"
	}

	return "LOW"
}

// MarshalText encodes the level as its name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *Level) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "HIGH":
		*l = High
	case "LOW":
		*l = Low
	default:
		return fmt.Errorf("unknown clock level %q", text)
	}

	return nil
}

// EdgeKind tells the direction of a clock level change.
type EdgeKind int

// The edge kinds.
const (
	Falling EdgeKind = iota
	Rising
)

// String returns "Rising Edge" or "Falling Edge".
func (e EdgeKind) String() string {
	if e == Rising {
		return "Rising Edge"
	}

	return "Falling Edge"
}

// MarshalText encodes the edge kind as its name.
func (e EdgeKind) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes an edge kind name.
func (e *EdgeKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case Rising.String():
		*e = Rising
	case Falling.String():
		*e = Falling
	default:
		return fmt.Errorf("unknown edge kind %q", text)
	}

	return nil
}
