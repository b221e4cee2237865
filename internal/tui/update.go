package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/pplog/internal/view"
)

func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll.Width = max(msg.Width-4, 20)
		m.scroll.Height = max(msg.Height-8, 5)
		m.refreshScroll()
		return m, nil

	case completedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			// A stale completion reloads the cursor, which may change the day.
			m.loadFields()
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Day %d (%s) saved: %s kg, %d reps",
			msg.record.DayNumber, msg.record.DayName, formatKg(msg.record.TotalWeight), msg.record.TotalReps)
		m.cursor = 0
		m.loadFields()
		m.refreshScroll()
		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditKey(msg)
	}
	if m.confirming {
		m.confirming = false
		if key.Matches(msg, m.keys.Confirm) {
			m.saving = true
			m.status = ""
			return m, tea.Batch(completeCmd(m.tracker), m.spinner.Tick)
		}
		m.status = "Completion cancelled"
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.view = m.view.Next()
		m.refreshScroll()

	case key.Matches(msg, m.keys.Prev):
		m.view = m.view.Prev()
		m.refreshScroll()

	case m.view != view.ProgramEntry:
		var cmd tea.Cmd
		m.scroll, cmd = m.scroll.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Edit):
		if len(m.fields) == 0 || m.saving {
			break
		}
		f := m.fields[m.cursor]
		raw, _ := m.tracker.Raw(f.Exercise, f.Set, f.Metric)
		m.input.SetValue(raw)
		m.input.Placeholder = f.Target
		m.input.CursorEnd()
		m.input.Focus()
		m.editing = true
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Complete):
		if !m.saving {
			m.confirming = true
		}

	case key.Matches(msg, m.keys.Reset):
		m.tracker.ResetSession()
		m.status = "Inputs cleared"
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		f := m.fields[m.cursor]
		m.editing = false
		m.input.Blur()
		if err := m.tracker.Record(f.Exercise, f.Set, f.Metric, m.input.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refreshScroll re-renders the scrollable content of the current view.
func (m *Model) refreshScroll() {
	switch m.view {
	case view.Progress:
		m.scroll.SetContent(m.renderProgress())
	case view.History:
		m.scroll.SetContent(m.renderHistory())
	}
	m.scroll.GotoTop()
}
