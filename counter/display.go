package counter

// A Display renders the simulator. The simulator calls it after every change,
// while holding its lock, so implementations must return quickly and must not
// call back into the simulator.
type Display interface {
	OnClockChanged(level Level, edge EdgeKind)
	OnCounterChanged(bits Bits, decimal int)
	OnSegmentsChanged(segments Segments)
	OnExcitationChanged(excitation Excitation)
}
