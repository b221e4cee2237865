package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/progress"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestCurrentDay verifies the client decodes the cursor and its day.
func TestCurrentDay(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/program/current": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, CurrentDay{DayNumber: 5, Day: program.DayFor(5)})
		},
	})
	defer ts.Close()

	got, err := NewHTTPClient(ts.URL + "/").CurrentDay(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.DayNumber != 5 || got.Day.Name != program.Pull {
		t.Errorf("current = %d %s, want 5 Pull", got.DayNumber, got.Day.Name)
	}
}

// TestHistoryParams verifies day and limit are sent as query params.
func TestHistoryParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("day"); got != "Legs" {
				t.Errorf("day=%q, want Legs", got)
			}
			if got := r.URL.Query().Get("limit"); got != "2" {
				t.Errorf("limit=%q, want 2", got)
			}
			writeTestJSON(t, w, []models.HistoryRecord{{DayNumber: 3, DayName: "Legs", TotalReps: 40}})
		},
	})
	defer ts.Close()

	records, err := NewHTTPClient(ts.URL).History(context.Background(), "Legs", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].TotalReps != 40 {
		t.Errorf("records = %+v", records)
	}
}

// TestHistoryNoLimit verifies a zero limit omits the param.
func TestHistoryNoLimit(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				t.Errorf("query = %q, want empty", r.URL.RawQuery)
			}
			writeTestJSON(t, w, []models.HistoryRecord{})
		},
	})
	defer ts.Close()

	if _, err := NewHTTPClient(ts.URL).History(context.Background(), "", 0); err != nil {
		t.Fatal(err)
	}
}

// TestProgressSingleAndAll verifies both progress endpoints map to a slice of series.
func TestProgressSingleAndAll(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress/Push": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, progress.Series{Day: "Push", Labels: []string{"a"}, TotalWeight: []float64{1200}, TotalReps: []int{12}})
		},
		"/api/v1/progress": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []progress.Series{{Day: "Push"}, {Day: "Pull"}, {Day: "Legs"}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	one, err := client.Progress(context.Background(), "Push")
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].TotalWeight[0] != 1200 {
		t.Errorf("Push = %+v", one)
	}
	all, err := client.Progress(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all = %d series", len(all))
	}
}

// TestHTTPError verifies non-200 responses become errors carrying the status.
func TestHTTPError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress/Push": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	if _, err := NewHTTPClient(ts.URL).Progress(context.Background(), "Push"); err == nil {
		t.Fatal("expected error")
	}
}
