// Package viz renders a live terminal view of a running solve: the
// residual norm history as a log-scale chart plus the current state.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/itersolve/internal/report"
	"github.com/san-kum/itersolve/internal/solver"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives a cursor from the bubbletea event loop, a few steps per
// frame, and charts the residual decay.
type Model struct {
	cursor       solver.Cursor
	method       string
	stepsPerTick int
	running      bool
	done         bool
	last         *solver.State
	history      []float64
}

// NewModel wraps a cursor pipeline for live viewing. stepsPerTick
// controls how many surfaced steps happen per frame; below 1 means 1.
func NewModel(cursor solver.Cursor, method string, stepsPerTick int) Model {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return Model{
		cursor:       cursor,
		method:       method,
		stepsPerTick: stepsPerTick,
		running:      true,
		history:      make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && !m.done {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.stepsPerTick; i++ {
		st := solver.Step(m.cursor)
		if st == nil {
			m.done = true
			return
		}
		m.last = st.Clone()

		norm := st.ResidualNorm()
		// Chart log residual; clamp so an exact zero stays plottable.
		logNorm := -16.0
		if norm > 0 {
			logNorm = math.Max(math.Log10(norm), -16)
		}
		m.history = append(m.history, logNorm)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}

		if st.Terminal() {
			m.done = true
			return
		}
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.method)+" SOLVE") + "\n")

	status := "RUNNING"
	if m.done {
		status = "DONE"
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(10), asciigraph.Width(60),
			asciigraph.Caption("log10 ||r||"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	if m.last != nil {
		s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.last.Step)) + "\n")
		s.WriteString(labelStyle.Render("Residual") + valueStyle.Render(fmt.Sprintf("%.3e", m.last.ResidualNorm())) + "\n")
		s.WriteString(labelStyle.Render("Alpha") + valueStyle.Render(fmt.Sprintf("%.3e", m.last.Alpha)) + "\n")
		if m.last.Breakdown {
			s.WriteString(doneStyle.Render("NUMERICAL BREAKDOWN") + "\n")
		}
		if m.done {
			s.WriteString("\n" + doneStyle.Render(report.Format(m.last)) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("SP:Pause Q:Quit"))
	return s.String()
}

// Last returns the most recent observed state, for use after the
// program exits.
func (m Model) Last() *solver.State { return m.last }
