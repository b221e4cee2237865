package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/claude/pplog/internal/session"
	"github.com/claude/pplog/internal/view"
)

// barWidth is the widest progress bar, in cells.
const barWidth = 30

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.view {
	case view.ProgramEntry:
		b.WriteString(m.renderEntry())
	default:
		b.WriteString(boxStyle.Render(m.scroll.View()))
	}
	b.WriteString("\n")

	switch {
	case m.saving:
		b.WriteString(m.spinner.View() + " saving…")
	case m.confirming:
		_, day := m.tracker.Current()
		b.WriteString(errorStyle.Render(fmt.Sprintf("Complete %s? (y/n)", day.Name)))
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderHeader() string {
	cursor, day := m.tracker.Current()
	tabs := make([]string, 0, 3)
	for _, v := range view.All() {
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(v.Title()))
		} else {
			tabs = append(tabs, tabStyle.Render(v.Title()))
		}
	}
	title := titleStyle.Render("PPL Tracker") + "  " +
		labelStyle.Render(fmt.Sprintf("Day %d ·", cursor)) + " " + dayStyle.Render(day.Name)
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderEntry() string {
	var b strings.Builder
	prev := ""
	for i := 0; i < len(m.fields); i += 2 {
		weight := m.fields[i]
		if weight.Exercise != prev {
			if prev != "" {
				b.WriteString("\n")
			}
			b.WriteString(exerciseStyle.Render(weight.Exercise) + "\n")
			prev = weight.Exercise
		}
		fmt.Fprintf(&b, "  %s %-10s  %s kg  %s reps\n",
			labelStyle.Render(fmt.Sprintf("set %d", weight.Set+1)),
			labelStyle.Render(weight.Target),
			m.renderCell(i),
			m.renderCell(i+1),
		)
	}

	_, totals := m.tracker.Preview()
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Volume ") + valueStyle.Render(formatKg(totals.Weight)+" kg") +
		labelStyle.Render(" · ") + repsStyle.Render(strconv.Itoa(totals.Reps)+" reps"))
	return b.String()
}

func (m Model) renderCell(i int) string {
	if m.editing && i == m.cursor {
		return "[" + m.input.View() + "]"
	}
	f := m.fields[i]
	raw, _ := m.tracker.Raw(f.Exercise, f.Set, f.Metric)
	text := fmt.Sprintf("%6s", raw)
	if raw == "" {
		text = fmt.Sprintf("%6s", "-")
	} else if !valid(f.Metric, raw) {
		text = errorStyle.Render(text)
	}
	if i == m.cursor {
		return cursorStyle.Render(text)
	}
	return valueStyle.Render(text)
}

func valid(metric session.Metric, raw string) bool {
	if metric == session.MetricWeight {
		return session.ParseWeight(raw).Valid
	}
	return session.ParseReps(raw).Valid
}

func (m Model) renderProgress() string {
	var b strings.Builder
	for i, s := range m.tracker.ProgressAll() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(exerciseStyle.Render(s.Day) + "\n")
		if s.Len() == 0 {
			b.WriteString(labelStyle.Render("  no sessions yet") + "\n")
			continue
		}
		var maxW float64
		for _, w := range s.TotalWeight {
			maxW = max(maxW, w)
		}
		for j, label := range s.Labels {
			n := 0
			if maxW > 0 {
				n = int(s.TotalWeight[j] / maxW * barWidth)
			}
			fmt.Fprintf(&b, "  %-19s %s %s kg  %s\n",
				labelStyle.Render(label),
				weightBarStyle.Render(strings.Repeat("█", n)+strings.Repeat(" ", barWidth-n)),
				valueStyle.Render(fmt.Sprintf("%8s", formatKg(s.TotalWeight[j]))),
				repsStyle.Render(fmt.Sprintf("%4d reps", s.TotalReps[j])),
			)
		}
	}
	return b.String()
}

func (m Model) renderHistory() string {
	records := m.tracker.History()
	if len(records) == 0 {
		return labelStyle.Render("No completed days yet.")
	}
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "%s %s  %s\n",
			dayStyle.Render(fmt.Sprintf("Day %d · %s", rec.DayNumber, rec.DayName)),
			labelStyle.Render(rec.DateStr),
			valueStyle.Render(fmt.Sprintf("%s kg · %d reps", formatKg(rec.TotalWeight), rec.TotalReps)),
		)
		for _, ex := range rec.Exercises {
			sets := make([]string, len(ex.Sets))
			for i, s := range ex.Sets {
				sets[i] = fmt.Sprintf("%s×%d", formatKg(s.Weight), s.Reps)
			}
			fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(ex.Name), strings.Join(sets, "  "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
