package kmap

import (
	"strings"

	"github.com/sarchlab/countersim/counter"
)

// A Map is a K-map with labelled rows and columns.
type Map struct {
	Name      string   `json:"name"`
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
	Cells     Grid     `json:"cells"`
}

// Labels of the counter maps. Rows are A, columns BC in Gray code order.
var (
	CounterRowLabels = []string{"A'", "A"}
	CounterColLabels = []string{"B'C'", "B'C", "BC", "BC'"}
)

var grayCode2 = []int{0, 1, 3, 2}

// Input names one input of one flip-flop.
type Input struct {
	Line counter.Line
	K    bool
}

// Name returns the input name, for example "J_A".
func (in Input) Name() string {
	if in.K {
		return "K_" + in.Line.String()
	}

	return "J_" + in.Line.String()
}

// Inputs lists the six flip-flop inputs in the order J_A, K_A, J_B, K_B, J_C,
// K_C.
func Inputs() []Input {
	inputs := make([]Input, 0, 2*len(counter.Lines))
	for _, l := range counter.Lines {
		inputs = append(inputs, Input{Line: l}, Input{Line: l, K: true})
	}

	return inputs
}

// jkExcitation returns the J and K inputs that take a flip-flop from q to
// next.
func jkExcitation(q, next counter.Bit) (j, k Cell) {
	switch {
	case q == 0 && next == 0:
		return Zero, DontCare
	case q == 0 && next == 1:
		return One, DontCare
	case q == 1 && next == 0:
		return DontCare, One
	default:
		return DontCare, Zero
	}
}

// ExcitationMap derives the K-map of one flip-flop input from the counter's
// next state rule. State 7 is never reached by counting and is a don't care.
func ExcitationMap(in Input) *Map {
	m := &Map{
		Name:      in.Name(),
		RowLabels: CounterRowLabels,
		ColLabels: CounterColLabels,
		Cells:     make(Grid, len(CounterRowLabels)),
	}

	for a := range m.Cells {
		m.Cells[a] = make([]Cell, len(grayCode2))

		for col, bc := range grayCode2 {
			state := a<<2 | bc
			if state >= counter.Modulus {
				m.Cells[a][col] = DontCare
				continue
			}

			q := counter.BitsOf(state).Get(in.Line)
			next := counter.BitsOf(counter.NextDecimal(state)).Get(in.Line)

			j, k := jkExcitation(q, next)
			if in.K {
				m.Cells[a][col] = k
			} else {
				m.Cells[a][col] = j
			}
		}
	}

	return m
}

// ExcitationMaps returns the maps of all six flip-flop inputs.
func ExcitationMaps() []*Map {
	inputs := Inputs()

	maps := make([]*Map, 0, len(inputs))
	for _, in := range inputs {
		maps = append(maps, ExcitationMap(in))
	}

	return maps
}

// String draws the map as a text table.
func (m *Map) String() string {
	width := 2
	for _, l := range append(append([]string(nil), m.RowLabels...), m.ColLabels...) {
		if len(l) > width {
			width = len(l)
		}
	}

	var sb strings.Builder

	sb.WriteString(m.Name + "\n")
	sb.WriteString(pad("", width))

	for _, l := range m.ColLabels {
		sb.WriteString(" " + pad(l, width))
	}

	sb.WriteString("\n")

	for r, row := range m.Cells {
		label := ""
		if r < len(m.RowLabels) {
			label = m.RowLabels[r]
		}

		sb.WriteString(pad(label, width))

		for _, c := range row {
			s := c.String()
			if s == "" {
				s = "."
			}

			sb.WriteString(" " + pad(s, width))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}
