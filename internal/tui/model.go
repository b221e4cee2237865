// Package tui is the terminal client: the three views of the log as tabs,
// with keyboard entry of weights and reps.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/session"
	"github.com/claude/pplog/internal/tracker"
	"github.com/claude/pplog/internal/view"
)

// field is one editable cell of the entry form.
type field struct {
	Exercise string
	Set      int
	Metric   session.Metric
	Target   string
}

// Model is the bubbletea model for the TUI.
type Model struct {
	tracker *tracker.Tracker
	keys    keyMap
	help    help.Model
	input   textinput.Model
	scroll  viewport.Model
	spinner spinner.Model

	view       view.View
	fields     []field
	cursor     int
	editing    bool
	confirming bool
	saving     bool

	status string
	err    error
	width  int
	height int
}

// NewModel creates a Model over tr, starting on the entry view.
func NewModel(tr *tracker.Tracker) Model {
	in := textinput.New()
	in.CharLimit = 12
	in.Width = 10
	in.Prompt = ""
	in.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		tracker: tr,
		keys:    defaultKeys(),
		help:    help.New(),
		input:   in,
		scroll:  viewport.New(80, 20),
		spinner: s,
		view:    view.ProgramEntry,
	}
	m.loadFields()
	return m
}

// loadFields rebuilds the entry cells for the active day.
func (m *Model) loadFields() {
	_, day := m.tracker.Current()
	m.fields = fieldsFor(day)
	if m.cursor >= len(m.fields) {
		m.cursor = 0
	}
}

func fieldsFor(day program.Day) []field {
	var out []field
	for _, ex := range day.Exercises {
		for i, target := range ex.Targets {
			out = append(out,
				field{Exercise: ex.Name, Set: i, Metric: session.MetricWeight, Target: target},
				field{Exercise: ex.Name, Set: i, Metric: session.MetricReps, Target: target},
			)
		}
	}
	return out
}

// completedMsg reports the outcome of completing the day.
type completedMsg struct {
	record models.HistoryRecord
	err    error
}

func completeCmd(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		rec, err := tr.CompleteDay(context.Background())
		return completedMsg{record: rec, err: err}
	}
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(tr *tracker.Tracker) error {
	_, err := tea.NewProgram(NewModel(tr), tea.WithAltScreen()).Run()
	return err
}
