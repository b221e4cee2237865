// Package view names the three screens of the app.
package view

import "fmt"

// View selects which screen is shown.
type View int

const (
	ProgramEntry View = iota
	Progress
	History
)

var names = [...]string{
	ProgramEntry: "program",
	Progress:     "progress",
	History:      "history",
}

// All returns the views in tab order.
func All() []View {
	return []View{ProgramEntry, Progress, History}
}

func (v View) String() string {
	if v < 0 || int(v) >= len(names) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return names[v]
}

// Title is the label shown on a tab.
func (v View) Title() string {
	switch v {
	case ProgramEntry:
		return "Program"
	case Progress:
		return "Progress"
	case History:
		return "History"
	}
	return v.String()
}

// Parse maps a name to a View. The empty string is ProgramEntry.
func Parse(s string) (View, error) {
	if s == "" {
		return ProgramEntry, nil
	}
	for i, n := range names {
		if n == s {
			return View(i), nil
		}
	}
	return ProgramEntry, fmt.Errorf("unknown view %q", s)
}

// Next returns the following tab, wrapping around.
func (v View) Next() View {
	return View((int(v) + 1) % len(names))
}

// Prev returns the preceding tab, wrapping around.
func (v View) Prev() View {
	return View((int(v) + len(names) - 1) % len(names))
}
