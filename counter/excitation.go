package counter

// Modulus is the number of states the counter cycles through.
const Modulus = 7

// NextDecimal returns the value the counter takes on the next rising edge.
func NextDecimal(decimal int) int {
	return (decimal + 1) % Modulus
}

// FlipFlop is the input and output view of one JK flip-flop.
type FlipFlop struct {
	J    Bit `json:"j"`
	K    Bit `json:"k"`
	Q    Bit `json:"q"`
	QBar Bit `json:"q_bar"`
}

// Excitation holds the JK view of the three flip-flops. It is derived from
// the counter state for display only and never feeds back into it.
type Excitation struct {
	A FlipFlop `json:"a"`
	B FlipFlop `json:"b"`
	C FlipFlop `json:"c"`
}

// FlipFlop returns the view of one line.
func (e Excitation) FlipFlop(l Line) FlipFlop {
	switch l {
	case LineA:
		return e.A
	case LineB:
		return e.B
	case LineC:
		return e.C
	default:
		return FlipFlop{}
	}
}

// Excite computes the JK inputs that drive the flip-flops towards next, with
// q being the current outputs. J is set where next has a 1 and K is its
// complement.
func Excite(next int, q Bits) Excitation {
	target := BitsOf(next)

	return Excitation{
		A: flipFlop(target.A, q.A),
		B: flipFlop(target.B, q.B),
		C: flipFlop(target.C, q.C),
	}
}

func flipFlop(target, q Bit) FlipFlop {
	j := target.Normalized()

	return FlipFlop{
		J:    j,
		K:    1 - j,
		Q:    q.Normalized(),
		QBar: q.Inverted(),
	}
}
