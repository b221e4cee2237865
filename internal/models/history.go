package models

import (
	"time"

	"github.com/google/uuid"
)

// SetEntry is one performed set inside a completed day.
type SetEntry struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// Volume returns weight × reps for the set.
func (s SetEntry) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// ExerciseLog is the per-exercise breakdown stored in a HistoryRecord.
type ExerciseLog struct {
	Name string     `json:"name"`
	Sets []SetEntry `json:"sets"`
}

// HistoryRecord summarises one completed training day. Records are never
// modified after they are created.
type HistoryRecord struct {
	ID          uuid.UUID     `json:"id"`
	DayNumber   int           `json:"dayNumber"`
	DayName     string        `json:"dayName"`
	DateStr     string        `json:"dateStr"`
	CompletedAt time.Time     `json:"completedAt,omitzero"`
	Exercises   []ExerciseLog `json:"exercises"`
	TotalWeight float64       `json:"totalWeight"`
	TotalReps   int           `json:"totalReps"`
}

// State is everything that survives a restart: the rotation cursor and the
// ordered history.
type State struct {
	DayNumber      int             `json:"dayNumber"`
	HistoryRecords []HistoryRecord `json:"historyRecords"`
}

// InitialState is the state of a fresh install.
func InitialState() State {
	return State{DayNumber: 1, HistoryRecords: []HistoryRecord{}}
}

// Clone returns a copy whose history slice can be appended to without
// touching the original.
func (s State) Clone() State {
	out := State{DayNumber: s.DayNumber, HistoryRecords: make([]HistoryRecord, len(s.HistoryRecords))}
	copy(out.HistoryRecords, s.HistoryRecords)
	return out
}
