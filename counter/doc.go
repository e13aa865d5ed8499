// Package counter simulates the MOD-7 synchronous counter of the sequential
// logic lab.
//
// The circuit is three JK flip-flops (A, B and C, A being the most
// significant) driven by a square-wave clock. On every rising edge of the
// clock the counter advances to (value+1) mod 7. While the clock is not
// driving it, the flip-flop outputs can be overridden with switches, which
// can also put the counter into the otherwise unreachable state 7.
//
// A Simulator owns a Clock and a StateMachine. All timing goes through a
// sim engine: a sim.SerialEngine gives a deterministic virtual-time run and a
// sim.RealTimeEngine runs the clock against the wall clock. Displays receive
// every change through the Display interface and tracers through hooks.
package counter
