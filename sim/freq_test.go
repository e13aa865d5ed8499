package sim

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1000 * Hz
		Expect(f.Period()).To(BeNumerically("==", 1e-3))
	})

	It("should get half period", func() {
		var f = 2 * Hz
		Expect(f.HalfPeriod()).To(BeNumerically("~", 0.25, 1e-12))
	})

	It("should panic on zero period", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})

	It("should tell valid frequencies", func() {
		Expect(Freq(0.5).Valid()).To(BeTrue())
		Expect(Freq(0).Valid()).To(BeFalse())
		Expect(Freq(-1).Valid()).To(BeFalse())
		Expect(Freq(math.Inf(1)).Valid()).To(BeFalse())
		Expect(Freq(math.NaN()).Valid()).To(BeFalse())
	})

	It("should format", func() {
		Expect((2.5 * Hz).String()).To(Equal("2.5 Hz"))
	})
})
