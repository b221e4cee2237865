package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/pplog/internal/metrics"
	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/session"
	"github.com/claude/pplog/internal/storage"
	"github.com/claude/pplog/internal/transfer"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var fixedNow = time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

func newTestTracker(t *testing.T, gw storage.Gateway, opts ...Option) *Tracker {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	tr := New(gw, opts...)
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tr
}

// TestCompleteFirstPushDay verifies the single-set scenario: weight 100 x 12
// on Press Banca produces a 1200/12 Push record and advances the cursor.
func TestCompleteFirstPushDay(t *testing.T) {
	gw := &storage.Memory{}
	tr := newTestTracker(t, gw)

	if err := tr.Record("Press Banca", 0, session.MetricWeight, "100"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Record("Press Banca", 0, session.MetricReps, "12"); err != nil {
		t.Fatal(err)
	}
	rec, err := tr.CompleteDay(context.Background())
	if err != nil {
		t.Fatalf("CompleteDay: %v", err)
	}
	if rec.DayNumber != 1 || rec.DayName != program.Push {
		t.Errorf("record day = %d %s", rec.DayNumber, rec.DayName)
	}
	if rec.TotalWeight != 1200 || rec.TotalReps != 12 {
		t.Errorf("totals = %v/%d, want 1200/12", rec.TotalWeight, rec.TotalReps)
	}
	if rec.DateStr != "2024-03-09 18:30:00" {
		t.Errorf("dateStr = %q", rec.DateStr)
	}

	cursor, day := tr.Current()
	if cursor != 2 || day.Name != program.Pull {
		t.Errorf("current = %d %s, want 2 Pull", cursor, day.Name)
	}
	if len(tr.Session()) != 0 {
		t.Error("session not reset after completion")
	}

	saved, _ := gw.Load(context.Background())
	if saved.DayNumber != 2 || len(saved.HistoryRecords) != 1 {
		t.Errorf("persisted = %d/%d", saved.DayNumber, len(saved.HistoryRecords))
	}
}

// TestRotationSequence verifies four completions from a fresh start yield
// Push, Pull, Legs, Push and keep history length equal to cursor-1.
func TestRotationSequence(t *testing.T) {
	tr := newTestTracker(t, &storage.Memory{})
	want := []string{program.Push, program.Pull, program.Legs, program.Push}
	for i, name := range want {
		rec, err := tr.CompleteDay(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if rec.DayName != name {
			t.Errorf("completion %d = %s, want %s", i+1, rec.DayName, name)
		}
		cursor, _ := tr.Current()
		if got := len(tr.History()); got != cursor-1 {
			t.Errorf("history len = %d, cursor = %d", got, cursor)
		}
	}
	hist := tr.History()
	if hist[0].DayNumber != 4 || hist[3].DayNumber != 1 {
		t.Errorf("history not newest first: %d..%d", hist[0].DayNumber, hist[3].DayNumber)
	}
}

// TestCompleteDaySaveFailure verifies a failed save changes nothing in memory.
func TestCompleteDaySaveFailure(t *testing.T) {
	gw := &storage.Memory{}
	tr := newTestTracker(t, gw)
	tr.Record("Press Banca", 0, session.MetricWeight, "80")

	gw.SaveErr = errors.New("disk full")
	if _, err := tr.CompleteDay(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	cursor, _ := tr.Current()
	if cursor != 1 {
		t.Errorf("cursor = %d, want 1", cursor)
	}
	if len(tr.History()) != 0 {
		t.Error("history changed after failed save")
	}
	if raw, ok := tr.Raw("Press Banca", 0, session.MetricWeight); !ok || raw != "80" {
		t.Errorf("session lost after failed save: %q %v", raw, ok)
	}
}

// TestRecordRejectsUnknownTargets verifies only sets of the active day are accepted.
func TestRecordRejectsUnknownTargets(t *testing.T) {
	tr := newTestTracker(t, &storage.Memory{})
	if err := tr.Record("Remo con Barra", 0, session.MetricWeight, "50"); !errors.Is(err, ErrUnknownExercise) {
		t.Errorf("Pull exercise on Push day err = %v", err)
	}
	if err := tr.Record("Press Banca", 3, session.MetricWeight, "50"); !errors.Is(err, ErrSetOutOfRange) {
		t.Errorf("set 3 of 3 err = %v", err)
	}
	if err := tr.Record("Press Banca", 2, session.MetricReps, "abc"); err != nil {
		t.Errorf("garbage value should be stored verbatim: %v", err)
	}
}

// TestPreviewCoercesInvalid verifies unreadable inputs count as zero in the live totals.
func TestPreviewCoercesInvalid(t *testing.T) {
	tr := newTestTracker(t, &storage.Memory{})
	tr.Record("Press Banca", 0, session.MetricWeight, "37,5")
	tr.Record("Press Banca", 0, session.MetricReps, "10")
	tr.Record("Press Banca", 1, session.MetricWeight, "abc")
	tr.Record("Press Banca", 1, session.MetricReps, "8")

	_, totals := tr.Preview()
	if totals.Weight != 375 || totals.Reps != 18 {
		t.Errorf("totals = %v/%d, want 375/18", totals.Weight, totals.Reps)
	}
}

// TestImportMissingKeyLeavesState verifies a backup without historyRecords is
// rejected and the current state is kept.
func TestImportMissingKeyLeavesState(t *testing.T) {
	m := metrics.NewTestManager()
	tr := newTestTracker(t, &storage.Memory{}, WithMetrics(m))
	tr.CompleteDay(context.Background())

	err := tr.Import(context.Background(), []byte(`{"dayNumber": 9}`))
	if !errors.Is(err, transfer.ErrFormatMismatch) {
		t.Fatalf("err = %v, want ErrFormatMismatch", err)
	}
	cursor, _ := tr.Current()
	if cursor != 2 || len(tr.History()) != 1 {
		t.Errorf("state changed: cursor %d, history %d", cursor, len(tr.History()))
	}
	if got := testutil.ToFloat64(m.CounterImports.WithLabelValues("format_mismatch")); got != 1 {
		t.Errorf("format_mismatch imports = %v", got)
	}

	if err := tr.Import(context.Background(), []byte(`{not json`)); !errors.Is(err, transfer.ErrParse) {
		t.Errorf("malformed err = %v, want ErrParse", err)
	}

	for _, doc := range []string{
		`{"dayNumber": 0, "historyRecords": []}`,
		`{"dayNumber": "-4", "historyRecords": []}`,
		`{"dayNumber": "", "historyRecords": []}`,
	} {
		if err := tr.Import(context.Background(), []byte(doc)); !errors.Is(err, transfer.ErrFormatMismatch) {
			t.Errorf("Import(%s) err = %v, want ErrFormatMismatch", doc, err)
		}
	}
	if cursor, _ := tr.Current(); cursor != 2 {
		t.Errorf("cursor = %d after rejected imports, want 2", cursor)
	}
}

// TestExportImportRoundTrip verifies an export restores an equivalent state
// into a fresh tracker, and the import clears any open session.
func TestExportImportRoundTrip(t *testing.T) {
	src := newTestTracker(t, &storage.Memory{})
	src.Record("Press Banca", 0, session.MetricWeight, "100")
	src.Record("Press Banca", 0, session.MetricReps, "12")
	src.CompleteDay(context.Background())
	src.CompleteDay(context.Background())

	data, err := src.Export()
	if err != nil {
		t.Fatal(err)
	}

	dst := newTestTracker(t, &storage.Memory{})
	dst.Record("Press Banca", 1, session.MetricWeight, "60")
	if err := dst.Import(context.Background(), data); err != nil {
		t.Fatalf("Import: %v", err)
	}

	want, got := src.State(), dst.State()
	if got.DayNumber != want.DayNumber || len(got.HistoryRecords) != len(want.HistoryRecords) {
		t.Fatalf("state = %d/%d, want %d/%d", got.DayNumber, len(got.HistoryRecords), want.DayNumber, len(want.HistoryRecords))
	}
	for i := range want.HistoryRecords {
		w, g := want.HistoryRecords[i], got.HistoryRecords[i]
		if g.ID != w.ID || g.DayName != w.DayName || g.TotalWeight != w.TotalWeight || g.DateStr != w.DateStr {
			t.Errorf("record %d = %+v, want %+v", i, g, w)
		}
	}
	if len(dst.Session()) != 0 {
		t.Error("session survived import")
	}
}

// TestImportLegacyBackup verifies the double-encoded form is accepted.
func TestImportLegacyBackup(t *testing.T) {
	src := newTestTracker(t, &storage.Memory{})
	src.CompleteDay(context.Background())
	data, err := src.ExportLegacy()
	if err != nil {
		t.Fatal(err)
	}

	dst := newTestTracker(t, &storage.Memory{})
	if err := dst.Import(context.Background(), data); err != nil {
		t.Fatalf("Import legacy: %v", err)
	}
	if cursor, _ := dst.Current(); cursor != 2 {
		t.Errorf("cursor = %d, want 2", cursor)
	}
}

// TestProgressUnknownDay verifies progress only answers for catalog days.
func TestProgressUnknownDay(t *testing.T) {
	tr := newTestTracker(t, &storage.Memory{})
	for range 4 {
		tr.CompleteDay(context.Background())
	}
	s, ok := tr.Progress(program.Push)
	if !ok || s.Len() != 2 {
		t.Errorf("Push progress = %v, %d points", ok, s.Len())
	}
	if _, ok := tr.Progress("Cardio"); ok {
		t.Error("Cardio should not be a progress day")
	}
	if got := len(tr.ProgressAll()); got != program.Len {
		t.Errorf("ProgressAll = %d series", got)
	}
}

// TestLoadRestoresPersistedState verifies a tracker resumes from the gateway.
func TestLoadRestoresPersistedState(t *testing.T) {
	gw := storage.NewMemory(models.State{DayNumber: 3, HistoryRecords: []models.HistoryRecord{
		{DayNumber: 1, DayName: program.Push},
		{DayNumber: 2, DayName: program.Pull},
	}})
	tr := newTestTracker(t, gw)
	cursor, day := tr.Current()
	if cursor != 3 || day.Name != program.Legs {
		t.Errorf("current = %d %s, want 3 Legs", cursor, day.Name)
	}
}

// TestCompleteDaySharedDatabase verifies two trackers on one database file
// never overwrite each other's completed days.
func TestCompleteDaySharedDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pplog.db")
	open := func() *storage.DB {
		db, err := storage.OpenMigrated(ctx, path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return db
	}
	cli := newTestTracker(t, open())
	srv := newTestTracker(t, open())

	if err := cli.Record("Press Banca", 0, session.MetricWeight, "80"); err != nil {
		t.Fatal(err)
	}
	if _, err := cli.CompleteDay(ctx); err != nil {
		t.Fatalf("first CompleteDay: %v", err)
	}

	if err := srv.Record("Press Banca", 0, session.MetricWeight, "100"); err != nil {
		t.Fatal(err)
	}
	if _, err := srv.CompleteDay(ctx); !errors.Is(err, ErrStale) {
		t.Fatalf("stale CompleteDay err = %v, want ErrStale", err)
	}
	cursor, day := srv.Current()
	if cursor != 2 || day.Name != program.Pull || len(srv.History()) != 1 {
		t.Fatalf("after reload: cursor %d %s, %d records", cursor, day.Name, len(srv.History()))
	}

	rec, err := srv.CompleteDay(ctx)
	if err != nil {
		t.Fatalf("CompleteDay after reload: %v", err)
	}
	if rec.DayNumber != 2 || rec.DayName != program.Pull {
		t.Errorf("record = day %d %s", rec.DayNumber, rec.DayName)
	}

	st, err := open().Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.DayNumber != 3 || len(st.HistoryRecords) != 2 {
		t.Fatalf("stored cursor %d, %d records; want 3 and 2", st.DayNumber, len(st.HistoryRecords))
	}
	first := st.HistoryRecords[0]
	if first.DayName != program.Push || first.Exercises[0].Sets[0].Weight != 80 {
		t.Errorf("first record = %+v, want the Push day logged at 80 kg", first)
	}
}

// TestCompleteDayAfterForeignImport verifies a wholesale replacement by
// another writer is picked up instead of overwritten.
func TestCompleteDayAfterForeignImport(t *testing.T) {
	ctx := context.Background()
	gw := &storage.Memory{}
	a := newTestTracker(t, gw)
	b := newTestTracker(t, gw)

	if err := a.Import(ctx, []byte(`{"dayNumber": 7, "historyRecords": []}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.CompleteDay(ctx); !errors.Is(err, ErrStale) {
		t.Fatalf("err = %v, want ErrStale", err)
	}
	if cursor, _ := b.Current(); cursor != 7 {
		t.Errorf("cursor = %d, want 7", cursor)
	}
}
