package counter

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/countersim/sim"
)

var _ = Describe("Builder", func() {
	It("should require an engine", func() {
		Expect(func() { MakeBuilder().Build("Counter") }).To(Panic())
	})

	It("should require a valid frequency", func() {
		b := MakeBuilder().WithEngine(sim.NewSerialEngine())

		Expect(func() { b.WithFrequency(0).Build("Counter") }).To(Panic())
		Expect(func() { b.WithFrequency(-1).Build("Counter") }).To(Panic())
	})

	It("should require a positive pulse width", func() {
		b := MakeBuilder().WithEngine(sim.NewSerialEngine())

		Expect(func() { b.WithPulseWidth(0).Build("Counter") }).To(Panic())
	})

	It("should not share displays between builders", func() {
		engine := sim.NewSerialEngine()
		base := MakeBuilder().WithEngine(engine)

		b1 := base.WithDisplay(nopDisplay{})
		b2 := base.WithDisplay(nopDisplay{})

		Expect(b1.displays).To(HaveLen(1))
		Expect(b2.displays).To(HaveLen(1))
		Expect(base.displays).To(BeEmpty())
	})

	It("should use the configured frequency", func() {
		s := MakeBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithFrequency(5 * sim.Hz).
			Build("Counter")

		Expect(s.Frequency()).To(Equal(5 * sim.Hz))
	})
})

var _ = Describe("Frequency parsing", func() {
	DescribeTable("valid input",
		func(s string, f sim.Freq) {
			parsed, err := ParseFrequency(s)

			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(f))
		},
		Entry("plain", "2", 2*sim.Hz),
		Entry("fraction", "0.5", 0.5*sim.Hz),
		Entry("with unit", "10 Hz", 10*sim.Hz),
		Entry("lower case unit", "4hz", 4*sim.Hz),
	)

	DescribeTable("invalid input",
		func(s string) {
			_, err := ParseFrequency(s)

			Expect(errors.Is(err, ErrInvalidFrequency)).To(BeTrue())
		},
		Entry("zero", "0"),
		Entry("negative", "-1"),
		Entry("text", "fast"),
		Entry("infinite", "Inf"),
		Entry("empty", ""),
	)

	It("should validate frequencies", func() {
		Expect(ValidateFrequency(1 * sim.Hz)).To(Succeed())
		Expect(ValidateFrequency(sim.Freq(math.NaN()))).
			To(MatchError(ErrInvalidFrequency))
	})
})

type nopDisplay struct{}

func (nopDisplay) OnClockChanged(Level, EdgeKind) {}
func (nopDisplay) OnCounterChanged(Bits, int)     {}
func (nopDisplay) OnSegmentsChanged(Segments)     {}
func (nopDisplay) OnExcitationChanged(Excitation) {}
