package workout

import (
	"reflect"
	"testing"
	"time"

	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/session"
	"github.com/google/uuid"
)

var fixedTime = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

// TestCompleteSingleSet covers the canonical scenario: only the first Press
// Banca set is filled in on day 1.
func TestCompleteSingleSet(t *testing.T) {
	s := session.New()
	s.Record("Press Banca", 0, session.MetricWeight, "100")
	s.Record("Press Banca", 0, session.MetricReps, "12")

	rec := Complete(program.DayFor(1), s, 1, fixedTime, "")

	if rec.DayNumber != 1 {
		t.Errorf("DayNumber = %d, want 1", rec.DayNumber)
	}
	if rec.DayName != "Push" {
		t.Errorf("DayName = %q, want Push", rec.DayName)
	}
	if rec.TotalWeight != 1200 {
		t.Errorf("TotalWeight = %v, want 1200", rec.TotalWeight)
	}
	if rec.TotalReps != 12 {
		t.Errorf("TotalReps = %d, want 12", rec.TotalReps)
	}
	if rec.DateStr != "2026-03-14 18:30:00" {
		t.Errorf("DateStr = %q", rec.DateStr)
	}
	if len(rec.Exercises) != 6 {
		t.Fatalf("exercises = %d, want 6", len(rec.Exercises))
	}
	if len(rec.Exercises[0].Sets) != 3 {
		t.Errorf("Press Banca sets = %d, want 3", len(rec.Exercises[0].Sets))
	}
	if rec.ID == uuid.Nil {
		t.Error("record ID not assigned")
	}
}

// TestCompleteWeightWithoutReps verifies a weight with no reps adds nothing.
func TestCompleteWeightWithoutReps(t *testing.T) {
	s := session.New()
	s.Record("Press Banca", 1, session.MetricWeight, "80")
	s.Record("Press Banca", 2, session.MetricReps, "abc")

	rec := Complete(program.DayFor(1), s, 1, fixedTime, "")
	if rec.TotalWeight != 0 || rec.TotalReps != 0 {
		t.Errorf("totals = %v/%d, want 0/0", rec.TotalWeight, rec.TotalReps)
	}
	if got := rec.Exercises[0].Sets[1].Weight; got != 80 {
		t.Errorf("recorded weight = %v, want 80", got)
	}
}

// TestCompleteIgnoresOtherDays verifies entries for exercises outside the
// active day are not counted.
func TestCompleteIgnoresOtherDays(t *testing.T) {
	s := session.New()
	s.Record("Remo con Barra", 0, session.MetricWeight, "60")
	s.Record("Remo con Barra", 0, session.MetricReps, "10")
	s.Record("Press Banca", 9, session.MetricReps, "10")

	rec := Complete(program.DayFor(1), s, 1, fixedTime, "")
	if rec.TotalReps != 0 {
		t.Errorf("TotalReps = %d, want 0", rec.TotalReps)
	}
}

// TestCompleteDeterministic verifies identical inputs give identical breakdowns.
func TestCompleteDeterministic(t *testing.T) {
	s := session.New()
	s.Record("Sentadilla Barra Libre", 0, session.MetricWeight, "90,5")
	s.Record("Sentadilla Barra Libre", 0, session.MetricReps, "10")
	s.Record("Sillón Femorales", 3, session.MetricWeight, "35")
	s.Record("Sillón Femorales", 3, session.MetricReps, "12")
	day := program.DayFor(3)

	a := Complete(day, s, 3, fixedTime, "")
	b := Complete(day, s, 3, fixedTime, "")
	a.ID, b.ID = uuid.Nil, uuid.Nil
	if !reflect.DeepEqual(a, b) {
		t.Errorf("records differ:\n%+v\n%+v", a, b)
	}
	if a.TotalWeight != 905+420 {
		t.Errorf("TotalWeight = %v, want %v", a.TotalWeight, 905+420)
	}
	if a.TotalReps != 22 {
		t.Errorf("TotalReps = %d, want 22", a.TotalReps)
	}
}

// TestBreakdownEmptySession verifies every target set is present with zeros.
func TestBreakdownEmptySession(t *testing.T) {
	day := program.DayFor(2)
	exercises, totals := Breakdown(day, session.New())
	if totals != (Totals{}) {
		t.Errorf("totals = %+v, want zero", totals)
	}
	n := 0
	for _, ex := range exercises {
		n += len(ex.Sets)
	}
	if n != day.SetCount() {
		t.Errorf("sets = %d, want %d", n, day.SetCount())
	}
}

// TestCompleteCustomLayout verifies the timestamp layout is configurable.
func TestCompleteCustomLayout(t *testing.T) {
	rec := Complete(program.DayFor(1), session.New(), 1, fixedTime, "02/01/2006")
	if rec.DateStr != "14/03/2026" {
		t.Errorf("DateStr = %q, want 14/03/2026", rec.DateStr)
	}
}
