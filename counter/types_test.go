package counter

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bits", func() {
	It("should convert from and to decimal", func() {
		for d := 0; d < 8; d++ {
			Expect(BitsOf(d).Decimal()).To(Equal(d))
		}
	})

	It("should put A first", func() {
		Expect(BitsOf(4)).To(Equal(Bits{A: 1}))
		Expect(BitsOf(3)).To(Equal(Bits{B: 1, C: 1}))
		Expect(BitsOf(3).String()).To(Equal("011"))
	})

	It("should set single lines", func() {
		b := Bits{}.With(LineB, 1)
		Expect(b.Get(LineB)).To(Equal(Bit(1)))
		Expect(b.Decimal()).To(Equal(2))

		b = b.With(LineB, 5)
		Expect(b.B).To(Equal(Bit(1)))

		b = b.With(Line(9), 1)
		Expect(b).To(Equal(Bits{B: 1}))
	})

	It("should describe LEDs", func() {
		Expect(LEDText(1)).To(Equal("1 (HIGH)"))
		Expect(LEDText(0)).To(Equal("0 (LOW)"))
	})

	It("should marshal to JSON", func() {
		data, err := json.Marshal(Bits{A: 1, C: 1})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"a":1,"b":0,"c":1}`))
	})
})

var _ = Describe("Line", func() {
	DescribeTable("parsing",
		func(s string, l Line) {
			parsed, err := ParseLine(s)

			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(l))
			Expect(parsed.String()).To(Equal(l.String()))
		},
		Entry("A", "A", LineA),
		Entry("lower case b", "b", LineB),
		Entry("padded C", " C ", LineC),
	)

	It("should reject unknown lines", func() {
		_, err := ParseLine("D")

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Level", func() {
	It("should toggle", func() {
		Expect(Low.Toggled()).To(Equal(High))
		Expect(High.Toggled()).To(Equal(Low))
	})

	It("should tell the edge", func() {
		Expect(High.Edge()).To(Equal(Rising))
		Expect(Low.Edge()).To(Equal(Falling))
		Expect(Rising.String()).To(Equal("Rising Edge"))
	})

	It("should marshal as text", func() {
		data, err := json.Marshal(map[string]interface{}{
			"level": High,
			"edge":  Falling,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"edge":"Falling Edge","level":"HIGH"}`))
	})

	It("should unmarshal from text", func() {
		var v struct {
			Level Level
			Edge  EdgeKind
			Cause Cause
		}

		err := json.Unmarshal(
			[]byte(`{"Level":"HIGH","Edge":"Rising Edge","Cause":"manual"}`), &v)

		Expect(err).NotTo(HaveOccurred())
		Expect(v.Level).To(Equal(High))
		Expect(v.Edge).To(Equal(Rising))
		Expect(v.Cause).To(Equal(CauseManual))
	})

	It("should reject unknown names", func() {
		var l Level

		Expect(json.Unmarshal([]byte(`"MID"`), &l)).NotTo(Succeed())
	})
})
