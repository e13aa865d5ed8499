package counter

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/countersim/sim"
)

type levelChange struct {
	time  sim.VTimeInSec
	level Level
}

type recordingHook struct {
	levels      []levelChange
	transitions []Transition
}

func (h *recordingHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosClockChanged:
		h.levels = append(h.levels, levelChange{
			time:  ctx.Now,
			level: ctx.Item.(Level),
		})
	case HookPosCounterChanged:
		h.transitions = append(h.transitions, ctx.Item.(Transition))
	}
}

func (h *recordingHook) clockTransitions() int {
	n := 0

	for _, t := range h.transitions {
		if t.Cause == CauseClock {
			n++
		}
	}

	return n
}

func expectConsistent(s *Simulator) {
	state := s.State()
	b := state.Bits

	Expect(state.Decimal).To(Equal(int(b.A)*4 + int(b.B)*2 + int(b.C)))
	Expect(state.Binary).To(Equal(b.String()))
}

var _ = Describe("Simulator", func() {
	var (
		engine *sim.SerialEngine
		hook   *recordingHook
		s      *Simulator
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		hook = &recordingHook{}
		s = MakeBuilder().
			WithEngine(engine).
			Build("Counter")
		s.AcceptHook(hook)
	})

	It("should start at zero, low and stopped", func() {
		state := s.State()

		Expect(state.Decimal).To(Equal(0))
		Expect(state.Bits).To(Equal(Bits{}))
		Expect(state.Level).To(Equal(Low))
		Expect(state.Running).To(BeFalse())
		Expect(state.Frequency).To(Equal(1.0))
		Expect(s.Name()).To(Equal("Counter"))
	})

	It("should count modulo 7 on rising edges", func() {
		s.Start(1 * sim.Hz)

		for k := 1; k <= 30; k++ {
			Expect(engine.RunUntil(sim.VTimeInSec(k) - 0.25)).To(Succeed())
			Expect(s.State().Decimal).To(Equal(k % 7))
			Expect(s.State().RisingEdges).To(Equal(uint64(k)))
			expectConsistent(s)
		}
	})

	It("should toggle every half period", func() {
		s.Start(2 * sim.Hz)

		Expect(engine.RunUntil(1)).To(Succeed())

		Expect(hook.levels).To(Equal([]levelChange{
			{0.25, High},
			{0.5, Low},
			{0.75, High},
			{1, Low},
		}))
		Expect(hook.clockTransitions()).To(Equal(2))
	})

	It("should keep bits and decimal consistent after every operation", func() {
		s.Start(4 * sim.Hz)
		Expect(engine.RunUntil(0.9)).To(Succeed())
		expectConsistent(s)

		s.SetManualInput(LineA, 1)
		expectConsistent(s)

		s.Stop()
		s.SinglePulse()
		expectConsistent(s)

		s.SetManualInput(LineC, 0)
		expectConsistent(s)

		s.Reset()
		expectConsistent(s)
	})

	Context("when starting and stopping", func() {
		It("should ignore a second start", func() {
			s.Start(1 * sim.Hz)
			s.Start(4 * sim.Hz)

			Expect(engine.RunUntil(2)).To(Succeed())

			Expect(s.State().Decimal).To(Equal(2))
			Expect(s.Frequency()).To(Equal(1 * sim.Hz))
		})

		It("should ignore a stop when stopped", func() {
			s.Stop()

			Expect(s.Running()).To(BeFalse())
			Expect(engine.Pending()).To(Equal(0))
		})

		It("should not toggle after stopping", func() {
			s.Start(1 * sim.Hz)
			Expect(engine.RunUntil(0.75)).To(Succeed())

			s.Stop()
			s.Stop()
			Expect(engine.RunUntil(10)).To(Succeed())

			Expect(s.Running()).To(BeFalse())
			Expect(s.State().Level).To(Equal(High))
			Expect(s.State().Decimal).To(Equal(1))
		})

		It("should resume from the current value", func() {
			s.Start(1 * sim.Hz)
			Expect(engine.RunUntil(1.75)).To(Succeed())
			s.Stop()

			s.Start(1 * sim.Hz)
			Expect(engine.RunUntil(4)).To(Succeed())

			Expect(s.State().Decimal).To(Equal(4))
		})
	})

	Context("when reset", func() {
		It("should return to the initial state", func() {
			s.Start(2 * sim.Hz)
			Expect(engine.RunUntil(1.3)).To(Succeed())
			s.SetManualInput(LineA, 1)

			s.Reset()

			state := s.State()
			Expect(state.Bits).To(Equal(Bits{}))
			Expect(state.Decimal).To(Equal(0))
			Expect(state.Level).To(Equal(Low))
			Expect(state.Running).To(BeFalse())
			Expect(state.RisingEdges).To(Equal(uint64(0)))
			Expect(state.Segments).To(Equal(sevenSegmentPatterns[0]))
		})

		It("should not count after reset", func() {
			s.Start(2 * sim.Hz)
			Expect(engine.RunUntil(1.3)).To(Succeed())

			s.Reset()
			Expect(engine.RunUntil(5)).To(Succeed())

			Expect(s.State().Decimal).To(Equal(0))
			Expect(s.State().Level).To(Equal(Low))
		})

		It("should report a reset transition", func() {
			s.SetManualInput(LineB, 1)
			s.Reset()

			last := hook.transitions[len(hook.transitions)-1]
			Expect(last.Cause).To(Equal(CauseReset))
			Expect(last.From).To(Equal(2))
			Expect(last.To).To(Equal(0))
		})
	})

	It("should excite the flip-flops after the edge from 3 to 4", func() {
		s.SetManualInput(LineB, 1)
		s.SetManualInput(LineC, 1)
		Expect(s.State().Decimal).To(Equal(3))

		s.SinglePulse()

		state := s.State()
		Expect(state.Decimal).To(Equal(4))
		Expect(state.Excitation).To(Equal(Excitation{
			A: FlipFlop{J: 1, K: 0, Q: 1, QBar: 0},
			B: FlipFlop{J: 0, K: 1, Q: 0, QBar: 1},
			C: FlipFlop{J: 0, K: 1, Q: 0, QBar: 1},
		}))
	})

	Context("when pulsing", func() {
		It("should go high and advance once", func() {
			s.SinglePulse()

			Expect(s.State().Level).To(Equal(High))
			Expect(s.State().Decimal).To(Equal(1))
			Expect(hook.clockTransitions()).To(Equal(1))
		})

		It("should go low after the pulse width", func() {
			s.SinglePulse()

			Expect(engine.RunUntil(0.19)).To(Succeed())
			Expect(s.State().Level).To(Equal(High))

			Expect(engine.RunUntil(0.2)).To(Succeed())
			Expect(s.State().Level).To(Equal(Low))
			Expect(s.State().Decimal).To(Equal(1))
			Expect(hook.clockTransitions()).To(Equal(1))
			Expect(hook.levels).To(Equal([]levelChange{
				{0, High},
				{0.2, Low},
			}))
		})

		It("should do nothing while running", func() {
			s.Start(1 * sim.Hz)
			s.SinglePulse()

			Expect(s.State().Level).To(Equal(Low))
			Expect(s.State().Decimal).To(Equal(0))
		})

		It("should advance again on a second pulse", func() {
			s.SinglePulse()
			Expect(engine.RunUntil(0.1)).To(Succeed())
			s.SinglePulse()

			Expect(s.State().Decimal).To(Equal(2))

			Expect(engine.RunUntil(1)).To(Succeed())
			Expect(s.State().Level).To(Equal(Low))
			Expect(hook.levels).To(Equal([]levelChange{
				{0, High},
				{0.1, High},
				{0.30000000000000004, Low},
			}))
		})

		It("should use the configured pulse width", func() {
			s = MakeBuilder().
				WithEngine(engine).
				WithPulseWidth(0.5).
				Build("Counter")

			s.SinglePulse()
			Expect(engine.RunUntil(0.25)).To(Succeed())
			Expect(s.State().Level).To(Equal(High))

			Expect(engine.RunUntil(0.5)).To(Succeed())
			Expect(s.State().Level).To(Equal(Low))
		})
	})

	Context("when changing the frequency", func() {
		It("should restart a running clock at the new rate", func() {
			s.Start(1 * sim.Hz)
			Expect(engine.RunUntil(1.25)).To(Succeed())

			s.SetFrequency(4 * sim.Hz)
			Expect(engine.RunUntil(2)).To(Succeed())

			var after []levelChange
			for _, c := range hook.levels {
				if c.time > 1.25 {
					after = append(after, c)
				}
			}

			Expect(after).To(Equal([]levelChange{
				{1.375, High},
				{1.5, Low},
				{1.625, High},
				{1.75, Low},
				{1.875, High},
				{2, Low},
			}))
			Expect(s.State().Decimal).To(Equal(4))
			Expect(s.Frequency()).To(Equal(4 * sim.Hz))
		})

		It("should keep a full new period between rising edges when slowing down", func() {
			s.Start(10 * sim.Hz)
			Expect(engine.RunUntil(0.11)).To(Succeed())
			Expect(s.State().Level).To(Equal(Low))

			s.SetFrequency(1 * sim.Hz)
			Expect(engine.RunUntil(3)).To(Succeed())

			var rises []sim.VTimeInSec
			for _, c := range hook.levels {
				if c.level == High {
					rises = append(rises, c.time)
				}
			}

			Expect(rises).To(HaveLen(3))
			Expect(float64(rises[0])).To(BeNumerically("~", 0.05, 1e-9))
			Expect(float64(rises[1])).To(BeNumerically("~", 1.05, 1e-9))
			Expect(float64(rises[2])).To(BeNumerically("~", 2.05, 1e-9))

			for i := 1; i < len(rises); i++ {
				Expect(float64(rises[i] - rises[i-1])).
					To(BeNumerically(">=", 1-1e-9))
			}
		})

		It("should not delay the next edge when speeding up while low", func() {
			s.Start(1 * sim.Hz)
			Expect(engine.RunUntil(1.1)).To(Succeed())
			Expect(s.State().Level).To(Equal(Low))

			s.SetFrequency(10 * sim.Hz)
			Expect(engine.RunUntil(1.16)).To(Succeed())

			last := hook.levels[len(hook.levels)-1]
			Expect(float64(last.time)).To(BeNumerically("~", 1.15, 1e-9))
			Expect(last.level).To(Equal(High))
		})

		It("should only store the frequency when stopped", func() {
			s.SetFrequency(2 * sim.Hz)

			Expect(s.Running()).To(BeFalse())
			Expect(engine.Pending()).To(Equal(0))
			Expect(s.Frequency()).To(Equal(2 * sim.Hz))
		})

		It("should not cancel a pending pulse release", func() {
			s.SinglePulse()
			s.SetFrequency(10 * sim.Hz)

			Expect(engine.RunUntil(0.2)).To(Succeed())
			Expect(s.State().Level).To(Equal(Low))
		})
	})

	Context("when set manually", func() {
		It("should show a blank display for 7", func() {
			Expect(func() {
				s.SetManualInput(LineA, 1)
				s.SetManualInput(LineB, 1)
				s.SetManualInput(LineC, 1)
			}).NotTo(Panic())

			state := s.State()
			Expect(state.Decimal).To(Equal(7))
			Expect(state.Binary).To(Equal("111"))
			Expect(state.Segments.Blank).To(BeTrue())
			Expect(state.Segments).To(Equal(BlankSegments))
		})

		It("should count from 7 to 1 on the next edge", func() {
			s.SetManualInput(LineA, 1)
			s.SetManualInput(LineB, 1)
			s.SetManualInput(LineC, 1)

			s.SinglePulse()

			Expect(s.State().Decimal).To(Equal(1))
		})

		It("should report the transition", func() {
			s.SetManualInput(LineC, 1)

			Expect(hook.transitions).To(HaveLen(1))
			t := hook.transitions[0]
			Expect(t.Cause).To(Equal(CauseManual))
			Expect(t.From).To(Equal(0))
			Expect(t.To).To(Equal(1))
			Expect(t.Bits).To(Equal(Bits{C: 1}))
			Expect(t.Excitation.B.J).To(Equal(Bit(1)))
		})

		It("should keep counting from the manual value", func() {
			s.SetManualInput(LineA, 1)
			s.SetManualInput(LineC, 1)
			s.Start(1 * sim.Hz)

			Expect(engine.RunUntil(1)).To(Succeed())

			Expect(s.State().Decimal).To(Equal(6))
		})
	})
})

var _ = Describe("Simulator displays", func() {
	var (
		mockCtrl *gomock.Controller
		display  *MockDisplay
		engine   *sim.SerialEngine
		s        *Simulator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		display = NewMockDisplay(mockCtrl)
		engine = sim.NewSerialEngine()

		gomock.InOrder(
			display.EXPECT().OnClockChanged(Low, Falling),
			display.EXPECT().OnCounterChanged(Bits{}, 0),
			display.EXPECT().OnSegmentsChanged(sevenSegmentPatterns[0]),
			display.EXPECT().OnExcitationChanged(Excite(1, Bits{})),
		)

		s = MakeBuilder().
			WithEngine(engine).
			WithDisplay(display).
			Build("Counter")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should show a rising edge and then the new value", func() {
		gomock.InOrder(
			display.EXPECT().OnClockChanged(High, Rising),
			display.EXPECT().OnCounterChanged(Bits{C: 1}, 1),
			display.EXPECT().OnSegmentsChanged(sevenSegmentPatterns[1]),
			display.EXPECT().OnExcitationChanged(Excite(1, Bits{C: 1})),
		)

		s.SinglePulse()
	})

	It("should only show the level on a falling edge", func() {
		display.EXPECT().OnClockChanged(High, Rising)
		display.EXPECT().OnCounterChanged(gomock.Any(), gomock.Any())
		display.EXPECT().OnSegmentsChanged(gomock.Any())
		display.EXPECT().OnExcitationChanged(gomock.Any())
		s.SinglePulse()

		display.EXPECT().OnClockChanged(Low, Falling)
		Expect(engine.RunUntil(1)).To(Succeed())
	})

	It("should show manual changes", func() {
		gomock.InOrder(
			display.EXPECT().OnCounterChanged(Bits{B: 1}, 2),
			display.EXPECT().OnSegmentsChanged(sevenSegmentPatterns[2]),
			display.EXPECT().OnExcitationChanged(Excite(3, Bits{B: 1})),
		)

		s.SetManualInput(LineB, 1)
	})
})
