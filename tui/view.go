package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/sarchlab/countersim/counter"
)

var (
	ColorNavy  = lipgloss.Color("#1B2A4A")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorGray  = lipgloss.Color("#808080")
	ColorRed   = lipgloss.Color("#FF4444")
	ColorGreen = lipgloss.Color("#44FF44")
	ColorAmber = lipgloss.Color("#FFAA00")
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite).
			Bold(true).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorNavy).
			Padding(0, 1)

	labelStyle  = lipgloss.NewStyle().Foreground(ColorGray)
	onStyle     = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(ColorGray)
	digitStyle  = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(ColorAmber)
	activeStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
)

func led(on bool) string {
	if on {
		return onStyle.Render("●")
	}

	return offStyle.Render("○")
}

// SegmentArt draws a digit three characters wide and three lines high. A
// blank display draws only spaces.
func SegmentArt(s counter.Segments) []string {
	mark := func(on bool, c string) string {
		if on {
			return c
		}

		return " "
	}

	return []string{
		" " + mark(s.A, "_") + " ",
		mark(s.F, "|") + mark(s.G, "_") + mark(s.B, "|"),
		mark(s.E, "|") + mark(s.D, "_") + mark(s.C, "|"),
	}
}

// View renders the front panel.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	snapshot, _ := m.panel.Snapshot()

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(m.renderClock(snapshot)),
		boxStyle.Render(m.renderOutputs(snapshot)),
		boxStyle.Render(m.renderDigit(snapshot)),
	)

	sections := []string{
		titleStyle.Render("MOD-7 Synchronous Counter"),
		top,
		boxStyle.Render(renderExcitation(snapshot.Excitation)),
	}

	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}

	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderClock(s Snapshot) string {
	var b strings.Builder

	state := "stopped"
	if m.simulator.Running() {
		state = activeStyle.Render("running")
	}

	fmt.Fprintf(&b, "%s %s %s\n",
		labelStyle.Render("CLK"), led(s.Level == counter.High), s.Level)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Clock"), state)
	b.WriteString(labelStyle.Render("Freq "))

	for i, f := range m.frequencies {
		text := f.String()
		if i == m.freqIndex {
			text = activeStyle.Render("[" + text + "]")
		}

		b.WriteString(" " + text)
	}

	return b.String()
}

func (m *Model) renderOutputs(s Snapshot) string {
	var b strings.Builder

	for _, l := range counter.Lines {
		bit := s.Bits.Get(l)
		fmt.Fprintf(&b, "%s %s %s\n",
			labelStyle.Render("Q"+l.String()), led(bit == 1), counter.LEDText(bit))
	}

	fmt.Fprintf(&b, "%s %s  %s %d",
		labelStyle.Render("Binary"), s.Bits,
		labelStyle.Render("Decimal"), s.Decimal)

	return b.String()
}

func (m *Model) renderDigit(s Snapshot) string {
	lines := SegmentArt(s.Segments)
	for i, l := range lines {
		lines[i] = digitStyle.Render(l)
	}

	return strings.Join(lines, "\n")
}

func renderExcitation(e counter.Excitation) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("FF   J  K  Q  Q'"))

	for _, l := range counter.Lines {
		ff := e.FlipFlop(l)
		fmt.Fprintf(&b, "\n%-3s  %d  %d  %d  %d", l, ff.J, ff.K, ff.Q, ff.QBar)
	}

	return b.String()
}

func (m *Model) renderHelp() string {
	if !m.showHelp {
		return renderBindings(m.keys.ShortHelp())
	}

	columns := m.keys.FullHelp()
	rendered := make([]string, 0, len(columns))

	for _, col := range columns {
		lines := make([]string, 0, len(col))
		for _, binding := range col {
			lines = append(lines, renderBinding(binding))
		}

		rendered = append(rendered,
			lipgloss.NewStyle().PaddingRight(4).Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderBindings(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		parts = append(parts, renderBinding(binding))
	}

	return strings.Join(parts, labelStyle.Render(" • "))
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	return lipgloss.NewStyle().Foreground(ColorWhite).Render(h.Key) +
		" " + labelStyle.Render(h.Desc)
}
