package counter

// Segments tells which of the seven segments of a digit display are lit.
// A blank display has all segments off and Blank set.
type Segments struct {
	A     bool `json:"a"`
	B     bool `json:"b"`
	C     bool `json:"c"`
	D     bool `json:"d"`
	E     bool `json:"e"`
	F     bool `json:"f"`
	G     bool `json:"g"`
	Blank bool `json:"blank"`
}

// Segment names one segment of the display.
type Segment int

// The segments, clockwise from the top, with G in the middle.
const (
	SegA Segment = iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
)

// AllSegments lists the segments from A to G.
var AllSegments = []Segment{SegA, SegB, SegC, SegD, SegE, SegF, SegG}

// String returns the segment letter.
func (s Segment) String() string {
	return string(rune('A' + int(s)))
}

// Lit tells if a segment is on.
func (s Segments) Lit(seg Segment) bool {
	switch seg {
	case SegA:
		return s.A
	case SegB:
		return s.B
	case SegC:
		return s.C
	case SegD:
		return s.D
	case SegE:
		return s.E
	case SegF:
		return s.F
	case SegG:
		return s.G
	default:
		return false
	}
}

// BlankSegments is the display with no digit.
var BlankSegments = Segments{Blank: true}

var sevenSegmentPatterns = [Modulus]Segments{
	{A: true, B: true, C: true, D: true, E: true, F: true},
	{B: true, C: true},
	{A: true, B: true, D: true, E: true, G: true},
	{A: true, B: true, C: true, D: true, G: true},
	{B: true, C: true, F: true, G: true},
	{A: true, C: true, D: true, F: true, G: true},
	{A: true, C: true, D: true, E: true, F: true, G: true},
}

// Decode returns the segments that show a counter value. Only the values the
// counter reaches by counting (0 to 6) have a pattern. Any other value gives
// a blank display and false.
func Decode(decimal int) (Segments, bool) {
	if decimal < 0 || decimal >= Modulus {
		return BlankSegments, false
	}

	return sevenSegmentPatterns[decimal], true
}
