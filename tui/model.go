// Package tui provides a terminal front panel for a counter simulator.
package tui

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/sim"
)

// DefaultRefreshInterval is how often the view redraws from the panel.
const DefaultRefreshInterval = 50 * time.Millisecond

// Simulator is the part of a counter simulator that the terminal panel
// drives.
type Simulator interface {
	AddDisplay(d counter.Display)
	Start(freq sim.Freq)
	Stop()
	SinglePulse()
	SetFrequency(freq sim.Freq)
	SetManualInput(l counter.Line, v counter.Bit)
	Reset()
	Running() bool
	Frequency() sim.Freq
}

// TickMsg asks the model to redraw.
type TickMsg time.Time

// Model is the bubbletea model of the front panel.
type Model struct {
	simulator Simulator
	panel     *Panel
	keys      KeyMap

	frequencies []sim.Freq
	freqIndex   int

	refreshInterval time.Duration
	width           int
	height          int
	showHelp        bool
	status          string
	quitting        bool
}

// NewModel attaches a panel to the simulator and creates the model. The
// frequency selector offers the given choices and starts at the current clock
// frequency, which is added to the choices when missing.
func NewModel(s Simulator, frequencies []sim.Freq) *Model {
	frequencies, index := includeFrequency(frequencies, s.Frequency())

	m := &Model{
		simulator:       s,
		panel:           NewPanel(),
		keys:            DefaultKeyMap(),
		frequencies:     frequencies,
		freqIndex:       index,
		refreshInterval: DefaultRefreshInterval,
	}

	s.AddDisplay(m.panel)

	return m
}

// WithRefreshInterval sets how often the view redraws.
func (m *Model) WithRefreshInterval(d time.Duration) *Model {
	m.refreshInterval = d
	return m
}

// Panel returns the display the model reads from.
func (m *Model) Panel() *Panel {
	return m.panel
}

// SelectedFrequency returns the frequency the selector points at.
func (m *Model) SelectedFrequency() sim.Freq {
	return m.frequencies[m.freqIndex]
}

// Frequencies returns the choices of the frequency selector.
func (m *Model) Frequencies() []sim.Freq {
	return slices.Clone(m.frequencies)
}

// includeFrequency returns the choices with f in them and the index of f. A
// missing f goes before the first larger choice. The given slice is not
// modified.
func includeFrequency(choices []sim.Freq, f sim.Freq) ([]sim.Freq, int) {
	if i := slices.Index(choices, f); i >= 0 {
		return choices, i
	}

	i := slices.IndexFunc(choices, func(c sim.Freq) bool { return c > f })
	if i < 0 {
		i = len(choices)
	}

	return slices.Insert(slices.Clone(choices), i, f), i
}

// Init starts the redraw ticks.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case TickMsg:
		if m.quitting {
			return m, nil
		}

		return m, m.tick()
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Run):
		m.toggleClock()

	case key.Matches(msg, m.keys.Pulse):
		if m.simulator.Running() {
			m.status = "stop the clock before pulsing"
			break
		}

		m.simulator.SinglePulse()
		m.status = "pulse"

	case key.Matches(msg, m.keys.Reset):
		m.simulator.Reset()
		m.status = "reset"

	case key.Matches(msg, m.keys.FreqUp):
		m.shiftFrequency(1)

	case key.Matches(msg, m.keys.FreqDown):
		m.shiftFrequency(-1)

	case key.Matches(msg, m.keys.ToggleA):
		m.toggleLine(counter.LineA)

	case key.Matches(msg, m.keys.ToggleB):
		m.toggleLine(counter.LineB)

	case key.Matches(msg, m.keys.ToggleC):
		m.toggleLine(counter.LineC)
	}

	return m, nil
}

func (m *Model) toggleClock() {
	if m.simulator.Running() {
		m.simulator.Stop()
		m.status = "clock stopped"

		return
	}

	f := m.SelectedFrequency()
	m.simulator.Start(f)
	m.status = "clock started at " + f.String()
}

func (m *Model) shiftFrequency(delta int) {
	i := m.freqIndex + delta
	if i < 0 || i >= len(m.frequencies) {
		return
	}

	m.freqIndex = i
	f := m.SelectedFrequency()

	if err := counter.ValidateFrequency(f); err != nil {
		m.status = err.Error()
		return
	}

	m.simulator.SetFrequency(f)
	m.status = "frequency " + f.String()
}

func (m *Model) toggleLine(l counter.Line) {
	snapshot, _ := m.panel.Snapshot()
	v := snapshot.Bits.Get(l).Inverted()

	m.simulator.SetManualInput(l, v)
	m.status = "switch " + l.String() + " set to " + counter.LEDText(v)
}
