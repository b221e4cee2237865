// Package tracker coordinates the rotation cursor, the history log and the
// in-progress session, and persists them through a storage gateway.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/pplog/internal/history"
	"github.com/claude/pplog/internal/metrics"
	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/progress"
	"github.com/claude/pplog/internal/session"
	"github.com/claude/pplog/internal/storage"
	"github.com/claude/pplog/internal/transfer"
	"github.com/claude/pplog/internal/workout"
)

var (
	// ErrUnknownExercise is returned when recording against an exercise
	// that is not part of the active day.
	ErrUnknownExercise = errors.New("exercise not in active day")
	// ErrSetOutOfRange is returned for a set index outside the exercise's targets.
	ErrSetOutOfRange = errors.New("set index out of range")
	// ErrStale is returned when the stored state changed under the tracker,
	// e.g. another process completed a day on the same database. The
	// tracker has reloaded by the time it is returned.
	ErrStale = errors.New("stored state changed by another process")
)

// Tracker is safe for concurrent use. All mutations are serialised and
// persisted before they become visible.
type Tracker struct {
	mu      sync.Mutex
	gw      storage.Gateway
	cursor  int
	log     *history.Log
	session *session.State

	now     func() time.Time
	layout  string
	metrics *metrics.Manager
	logger  *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithDateLayout sets the layout used for a record's dateStr.
func WithDateLayout(layout string) Option {
	return func(t *Tracker) {
		if layout != "" {
			t.layout = layout
		}
	}
}

// WithMetrics records completions, imports and the cursor on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New creates a Tracker at the initial state. Call Load to read the
// persisted state.
func New(gw storage.Gateway, opts ...Option) *Tracker {
	t := &Tracker{
		gw:      gw,
		cursor:  1,
		log:     history.New(nil),
		session: session.New(),
		now:     time.Now,
		layout:  workout.DefaultDateLayout,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Load replaces the cursor and history with the persisted state and
// clears the session.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reload(ctx)
}

func (t *Tracker) reload(ctx context.Context) error {
	st, err := t.gw.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	t.cursor = st.DayNumber
	t.log.Replace(st.HistoryRecords)
	t.session.Reset()
	t.metrics.Cursor(t.cursor)
	return nil
}

// Current returns the cursor and the day it selects.
func (t *Tracker) Current() (int, program.Day) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor, program.DayFor(t.cursor)
}

// Record stores a raw input for a set of the active day. The value is
// kept verbatim.
func (t *Tracker) Record(exercise string, set int, metric session.Metric, raw string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	day := program.DayFor(t.cursor)
	for _, ex := range day.Exercises {
		if ex.Name != exercise {
			continue
		}
		if set < 0 || set >= len(ex.Targets) {
			return fmt.Errorf("%s set %d: %w", exercise, set, ErrSetOutOfRange)
		}
		t.session.Record(exercise, set, metric, raw)
		return nil
	}
	return fmt.Errorf("%s on %s: %w", exercise, day.Name, ErrUnknownExercise)
}

// Raw returns the recorded input for a set, if any.
func (t *Tracker) Raw(exercise string, set int, metric session.Metric) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Raw(exercise, set, metric)
}

// Session returns the in-progress entries.
func (t *Tracker) Session() []session.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Entries()
}

// ResetSession discards every in-progress entry.
func (t *Tracker) ResetSession() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Reset()
}

// Preview computes the breakdown the active day would be completed with.
func (t *Tracker) Preview() ([]models.ExerciseLog, workout.Totals) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return workout.Breakdown(program.DayFor(t.cursor), t.session)
}

// CompleteDay folds the session into a record, appends it, advances the
// cursor, resets the session and saves. The append happens against the
// stored state, so a day completed by another process sharing the database
// is never overwritten: if the stored cursor or history moved since this
// tracker last read them, the tracker adopts the stored state, keeps the
// session and returns ErrStale. If saving fails nothing changes.
func (t *Tracker) CompleteDay(ctx context.Context) (models.HistoryRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		rec    models.HistoryRecord
		stored models.State
	)
	err := t.gw.Update(ctx, func(st models.State) (models.State, error) {
		stored = st
		if st.DayNumber != t.cursor || len(st.HistoryRecords) != t.log.Len() {
			return st, ErrStale
		}
		rec = workout.Complete(program.DayFor(t.cursor), t.session, t.cursor, t.now(), t.layout)
		return models.State{
			DayNumber:      st.DayNumber + 1,
			HistoryRecords: append(st.HistoryRecords, rec),
		}, nil
	})
	if errors.Is(err, ErrStale) {
		t.logger.Warn("stored state changed, reloaded before completing",
			"cursor", t.cursor, "stored_cursor", stored.DayNumber, "stored_records", len(stored.HistoryRecords))
		t.cursor = stored.DayNumber
		t.log.Replace(stored.HistoryRecords)
		t.metrics.Cursor(t.cursor)
		return models.HistoryRecord{}, fmt.Errorf("completing day: %w", err)
	}
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("saving completed day: %w", err)
	}

	t.log.Append(rec)
	t.cursor++
	t.session.Reset()
	t.metrics.DayCompleted(t.cursor)
	t.logger.Info("day completed",
		"day_number", rec.DayNumber,
		"day", rec.DayName,
		"total_weight", rec.TotalWeight,
		"total_reps", rec.TotalReps,
	)
	return rec, nil
}

// History returns the records newest first.
func (t *Tracker) History() []models.HistoryRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.Reversed()
}

// Find returns the record with id.
func (t *Tracker) Find(id uuid.UUID) (models.HistoryRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.Find(id)
}

// Progress returns the series for a catalog day. ok is false for names
// outside the catalog.
func (t *Tracker) Progress(day string) (progress.Series, bool) {
	if _, ok := program.Lookup(day); !ok {
		return progress.Series{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.Build(t.log.All(), day), true
}

// ProgressAll returns one series per catalog day.
func (t *Tracker) ProgressAll() []progress.Series {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.BuildAll(t.log.All())
}

// State returns a copy of the persisted-shape state.
func (t *Tracker) State() models.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.State{DayNumber: t.cursor, HistoryRecords: t.log.All()}
}

// Export encodes the state as a nested JSON backup.
func (t *Tracker) Export() ([]byte, error) {
	return transfer.Export(t.State())
}

// ExportLegacy encodes the state in the double-encoded form older installs read.
func (t *Tracker) ExportLegacy() ([]byte, error) {
	return transfer.ExportLegacy(t.State())
}

// Import replaces the whole state with a backup, then reloads from the
// gateway. A rejected backup leaves the state untouched.
func (t *Tracker) Import(ctx context.Context, data []byte) error {
	st, err := transfer.Import(data)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrFormatMismatch):
			t.metrics.Import("format_mismatch")
		case errors.Is(err, transfer.ErrParse):
			t.metrics.Import("parse_error")
		default:
			t.metrics.Import("error")
		}
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.gw.Save(ctx, st); err != nil {
		t.metrics.Import("error")
		return fmt.Errorf("saving imported state: %w", err)
	}
	if err := t.reload(ctx); err != nil {
		t.metrics.Import("error")
		return err
	}
	t.metrics.Import("ok")
	t.logger.Info("backup imported", "day_number", t.cursor, "records", t.log.Len())
	return nil
}
