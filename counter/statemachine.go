package counter

// A StateMachine holds the outputs of the three flip-flops. It advances with
// MOD-7 arithmetic when clocked and accepts manual overrides otherwise.
//
// The decimal value is always computed from the bits, so the two can never
// disagree.
type StateMachine struct {
	bits       Bits
	excitation Excitation
}

// NewStateMachine creates a StateMachine at 000.
func NewStateMachine() *StateMachine {
	m := new(StateMachine)
	m.Reset()

	return m
}

// Bits returns the current flip-flop outputs.
func (m *StateMachine) Bits() Bits {
	return m.bits
}

// Decimal returns the current value, A*4 + B*2 + C.
func (m *StateMachine) Decimal() int {
	return m.bits.Decimal()
}

// Excitation returns the JK view computed by the latest change.
func (m *StateMachine) Excitation() Excitation {
	return m.excitation
}

// Segments returns the seven-segment view of the current value. State 7,
// which only manual overrides reach, shows as blank.
func (m *StateMachine) Segments() Segments {
	seg, _ := Decode(m.Decimal())
	return seg
}

// Advance applies one rising edge. The JK view is computed from the new
// value and the new outputs.
func (m *StateMachine) Advance() (from, to int) {
	from = m.Decimal()
	to = NextDecimal(from)

	m.bits = BitsOf(to)
	m.excitation = Excite(to, m.bits)

	return from, to
}

// Set overrides one flip-flop output. The JK view then shows what the next
// rising edge would do from the value that was set.
func (m *StateMachine) Set(l Line, v Bit) (from, to int) {
	from = m.Decimal()

	m.bits = m.bits.With(l, v)
	to = m.Decimal()
	m.excitation = Excite(NextDecimal(to), m.bits)

	return from, to
}

// Reset clears all outputs.
func (m *StateMachine) Reset() (from int) {
	from = m.Decimal()

	m.bits = Bits{}
	m.excitation = Excite(NextDecimal(0), m.bits)

	return from
}
