// Package history is the ordered, append-only log of completed days.
package history

import (
	"github.com/claude/pplog/internal/models"
	"github.com/google/uuid"
)

// Log holds records in completion order. Existing records are never
// reordered or modified; the only way to replace them is Replace, used by
// import.
type Log struct {
	records []models.HistoryRecord
}

// New wraps an existing sequence (e.g. loaded from storage). A nil slice
// yields an empty log.
func New(records []models.HistoryRecord) *Log {
	l := &Log{records: make([]models.HistoryRecord, len(records))}
	copy(l.records, records)
	return l
}

// Append adds a record at the end.
func (l *Log) Append(rec models.HistoryRecord) {
	l.records = append(l.records, rec)
}

// Replace swaps the whole sequence.
func (l *Log) Replace(records []models.HistoryRecord) {
	l.records = make([]models.HistoryRecord, len(records))
	copy(l.records, records)
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// All returns a copy in chronological order.
func (l *Log) All() []models.HistoryRecord {
	out := make([]models.HistoryRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Reversed returns a copy newest first, for display.
func (l *Log) Reversed() []models.HistoryRecord {
	n := len(l.records)
	out := make([]models.HistoryRecord, n)
	for i, rec := range l.records {
		out[n-1-i] = rec
	}
	return out
}

// ByDay returns records whose day name matches exactly, oldest first.
func (l *Log) ByDay(name string) []models.HistoryRecord {
	var out []models.HistoryRecord
	for _, rec := range l.records {
		if rec.DayName == name {
			out = append(out, rec)
		}
	}
	return out
}

// Latest returns the newest record.
func (l *Log) Latest() (models.HistoryRecord, bool) {
	if len(l.records) == 0 {
		return models.HistoryRecord{}, false
	}
	return l.records[len(l.records)-1], true
}

// Find looks a record up by ID.
func (l *Log) Find(id uuid.UUID) (models.HistoryRecord, bool) {
	for _, rec := range l.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.HistoryRecord{}, false
}
