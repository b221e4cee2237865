// Package workout folds the in-progress session into a history record.
package workout

import (
	"time"

	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/session"
	"github.com/google/uuid"
)

// DefaultDateLayout formats the human-readable completion time.
const DefaultDateLayout = "2006-01-02 15:04:05"

// Totals is the aggregate volume of a day.
type Totals struct {
	Weight float64 `json:"totalWeight"`
	Reps   int     `json:"totalReps"`
}

// Complete builds the record for the active day from the session. Every
// target set of every exercise is visited; missing or unreadable weight and
// reps count as zero. The caller appends the record, advances the cursor,
// resets the session and persists.
func Complete(day program.Day, s *session.State, cursor int, now time.Time, layout string) models.HistoryRecord {
	if layout == "" {
		layout = DefaultDateLayout
	}

	exercises, totals := Breakdown(day, s)
	return models.HistoryRecord{
		ID:          uuid.New(),
		DayNumber:   cursor,
		DayName:     day.Name,
		DateStr:     now.Format(layout),
		CompletedAt: now,
		Exercises:   exercises,
		TotalWeight: totals.Weight,
		TotalReps:   totals.Reps,
	}
}

// Breakdown computes the per-set entries and totals without building a record.
func Breakdown(day program.Day, s *session.State) ([]models.ExerciseLog, Totals) {
	var totals Totals
	exercises := make([]models.ExerciseLog, 0, len(day.Exercises))
	for _, ex := range day.Exercises {
		sets := make([]models.SetEntry, len(ex.Targets))
		for i := range ex.Targets {
			set := models.SetEntry{
				Weight: s.Weight(ex.Name, i).OrZero(),
				Reps:   s.Reps(ex.Name, i).OrZero(),
			}
			totals.Weight += set.Volume()
			totals.Reps += set.Reps
			sets[i] = set
		}
		exercises = append(exercises, models.ExerciseLog{Name: ex.Name, Sets: sets})
	}
	return exercises, totals
}
