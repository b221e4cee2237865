// Package progress projects history into per-day chart series.
package progress

import (
	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
)

// Series holds two parallel value lines for one day name, plotted on
// separate axes (weight on the left, reps on the right).
type Series struct {
	Day         string    `json:"day"`
	Labels      []string  `json:"labels"`
	TotalWeight []float64 `json:"totalWeight"`
	TotalReps   []int     `json:"totalReps"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Labels)
}

// Build filters records by exact day name, keeping their order. Labels are
// the stored completion strings.
func Build(records []models.HistoryRecord, day string) Series {
	s := Series{Day: day, Labels: []string{}, TotalWeight: []float64{}, TotalReps: []int{}}
	for _, rec := range records {
		if rec.DayName != day {
			continue
		}
		s.Labels = append(s.Labels, rec.DateStr)
		s.TotalWeight = append(s.TotalWeight, rec.TotalWeight)
		s.TotalReps = append(s.TotalReps, rec.TotalReps)
	}
	return s
}

// BuildAll returns one series per rotation day, in rotation order.
func BuildAll(records []models.HistoryRecord) []Series {
	names := program.DayNames()
	out := make([]Series, len(names))
	for i, name := range names {
		out[i] = Build(records, name)
	}
	return out
}
