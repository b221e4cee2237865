package history

import (
	"testing"

	"github.com/claude/pplog/internal/models"
	"github.com/google/uuid"
)

func rec(n int, day string) models.HistoryRecord {
	return models.HistoryRecord{ID: uuid.New(), DayNumber: n, DayName: day}
}

// TestAppendPreservesOrder verifies records stay in completion order.
func TestAppendPreservesOrder(t *testing.T) {
	l := New(nil)
	l.Append(rec(1, "Push"))
	l.Append(rec(2, "Pull"))
	l.Append(rec(3, "Legs"))

	all := l.All()
	for i, r := range all {
		if r.DayNumber != i+1 {
			t.Errorf("record %d has DayNumber %d", i, r.DayNumber)
		}
	}
	if l.Len() != 3 {
		t.Errorf("Len = %d, want 3", l.Len())
	}
}

// TestAllReturnsCopy verifies callers cannot mutate stored records.
func TestAllReturnsCopy(t *testing.T) {
	l := New([]models.HistoryRecord{rec(1, "Push")})
	all := l.All()
	all[0].DayName = "changed"
	if got := l.All()[0].DayName; got != "Push" {
		t.Errorf("stored record mutated: %q", got)
	}
}

// TestNewCopiesInput verifies the log does not alias the loaded slice.
func TestNewCopiesInput(t *testing.T) {
	in := []models.HistoryRecord{rec(1, "Push")}
	l := New(in)
	in[0].DayName = "changed"
	if got := l.All()[0].DayName; got != "Push" {
		t.Errorf("log aliased input: %q", got)
	}
}

// TestReversed verifies newest-first ordering.
func TestReversed(t *testing.T) {
	l := New([]models.HistoryRecord{rec(1, "Push"), rec(2, "Pull"), rec(3, "Legs")})
	rev := l.Reversed()
	if rev[0].DayNumber != 3 || rev[2].DayNumber != 1 {
		t.Errorf("Reversed order = %d..%d", rev[0].DayNumber, rev[2].DayNumber)
	}
}

// TestByDay verifies exact-name filtering keeps chronological order.
func TestByDay(t *testing.T) {
	l := New([]models.HistoryRecord{
		rec(1, "Push"), rec(2, "Pull"), rec(3, "Legs"), rec(4, "Push"), rec(5, "push"),
	})
	push := l.ByDay("Push")
	if len(push) != 2 {
		t.Fatalf("ByDay(Push) = %d records, want 2", len(push))
	}
	if push[0].DayNumber != 1 || push[1].DayNumber != 4 {
		t.Errorf("ByDay order = %d, %d", push[0].DayNumber, push[1].DayNumber)
	}
}

// TestLatestAndFind verifies lookups on empty and populated logs.
func TestLatestAndFind(t *testing.T) {
	l := New(nil)
	if _, ok := l.Latest(); ok {
		t.Error("Latest on empty log should report false")
	}

	r := rec(1, "Push")
	l.Append(r)
	latest, ok := l.Latest()
	if !ok || latest.ID != r.ID {
		t.Errorf("Latest = %v, %v", latest.ID, ok)
	}
	if _, ok := l.Find(r.ID); !ok {
		t.Error("Find did not locate appended record")
	}
	if _, ok := l.Find(uuid.New()); ok {
		t.Error("Find located unknown ID")
	}
}

// TestReplace verifies bulk replacement.
func TestReplace(t *testing.T) {
	l := New([]models.HistoryRecord{rec(1, "Push")})
	l.Replace([]models.HistoryRecord{rec(1, "Push"), rec(2, "Pull")})
	if l.Len() != 2 {
		t.Errorf("Len after Replace = %d, want 2", l.Len())
	}
}
