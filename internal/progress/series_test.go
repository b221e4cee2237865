package progress

import (
	"testing"

	"github.com/claude/pplog/internal/models"
)

func records() []models.HistoryRecord {
	return []models.HistoryRecord{
		{DayNumber: 1, DayName: "Push", DateStr: "d1", TotalWeight: 1200, TotalReps: 12},
		{DayNumber: 2, DayName: "Pull", DateStr: "d2", TotalWeight: 900, TotalReps: 30},
		{DayNumber: 3, DayName: "Legs", DateStr: "d3", TotalWeight: 3000, TotalReps: 50},
		{DayNumber: 4, DayName: "Push", DateStr: "d4", TotalWeight: 1500, TotalReps: 20},
	}
}

// TestBuildFiltersAndKeepsOrder verifies exact filtering, chronological order
// and parallel series.
func TestBuildFiltersAndKeepsOrder(t *testing.T) {
	s := Build(records(), "Push")
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if s.Labels[0] != "d1" || s.Labels[1] != "d4" {
		t.Errorf("Labels = %v", s.Labels)
	}
	if s.TotalWeight[0] != 1200 || s.TotalWeight[1] != 1500 {
		t.Errorf("TotalWeight = %v", s.TotalWeight)
	}
	if s.TotalReps[0] != 12 || s.TotalReps[1] != 20 {
		t.Errorf("TotalReps = %v", s.TotalReps)
	}
}

// TestBuildEmpty verifies an unmatched day gives empty, non-nil series.
func TestBuildEmpty(t *testing.T) {
	s := Build(records(), "push")
	if s.Len() != 0 || s.Labels == nil || s.TotalWeight == nil || s.TotalReps == nil {
		t.Errorf("unexpected series %+v", s)
	}
}

// TestBuildAll verifies one series per rotation day.
func TestBuildAll(t *testing.T) {
	all := BuildAll(records())
	if len(all) != 3 {
		t.Fatalf("BuildAll = %d series, want 3", len(all))
	}
	if all[0].Day != "Push" || all[0].Len() != 2 {
		t.Errorf("Push series = %+v", all[0])
	}
	if all[2].Day != "Legs" || all[2].Len() != 1 {
		t.Errorf("Legs series = %+v", all[2])
	}
}

// TestLayoutScalesAxesIndependently verifies each line peaks at the top.
func TestLayoutScalesAxesIndependently(t *testing.T) {
	c := Layout(Build(records(), "Push"), 100, 50, 5)
	if c.MaxWeight != 1500 || c.MaxReps != 20 {
		t.Errorf("max = %v/%d", c.MaxWeight, c.MaxReps)
	}
	if c.Weight[1].Y != 5 || c.Reps[1].Y != 5 {
		t.Errorf("peak y = %v/%v, want 5", c.Weight[1].Y, c.Reps[1].Y)
	}
	if c.Weight[0].X != 5 || c.Weight[1].X != 95 {
		t.Errorf("x = %v..%v, want 5..95", c.Weight[0].X, c.Weight[1].X)
	}
}

// TestLayoutSinglePointAndZeros verifies degenerate inputs stay in bounds.
func TestLayoutSinglePointAndZeros(t *testing.T) {
	s := Series{Labels: []string{"a"}, TotalWeight: []float64{0}, TotalReps: []int{0}}
	c := Layout(s, 100, 50, 5)
	if c.Weight[0].X != 50 {
		t.Errorf("single x = %v, want 50", c.Weight[0].X)
	}
	if c.Weight[0].Y != 45 || c.Reps[0].Y != 45 {
		t.Errorf("zero y = %v/%v, want 45", c.Weight[0].Y, c.Reps[0].Y)
	}
}

// TestPolyline verifies the SVG points format.
func TestPolyline(t *testing.T) {
	got := Polyline([]Point{{X: 1, Y: 2}, {X: 3.5, Y: 4}})
	if want := "1.0,2.0 3.5,4.0"; got != want {
		t.Errorf("Polyline = %q, want %q", got, want)
	}
}
