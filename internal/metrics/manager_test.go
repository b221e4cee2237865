package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNilManager verifies a nil manager is safe to call.
func TestNilManager(t *testing.T) {
	var m *Manager
	m.DayCompleted(2)
	m.Cursor(2)
	m.Import("ok")
	m.CacheLookup(true)
	m.Request("GET", 200, 0.1)
}

// TestDayCompleted verifies the counter and the cursor gauge move together.
func TestDayCompleted(t *testing.T) {
	m := NewTestManager()
	m.DayCompleted(2)
	m.DayCompleted(3)
	if got := testutil.ToFloat64(m.CounterDaysCompleted); got != 2 {
		t.Errorf("days completed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.GaugeDayNumber); got != 3 {
		t.Errorf("cursor gauge = %v, want 3", got)
	}
}

// TestCacheLookupLabels verifies hits and misses land in separate series.
func TestCacheLookupLabels(t *testing.T) {
	m := NewTestManager()
	m.CacheLookup(true)
	m.CacheLookup(true)
	m.CacheLookup(false)
	if got := testutil.ToFloat64(m.CounterCacheLookups.WithLabelValues("hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CounterCacheLookups.WithLabelValues("miss")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}

// TestRequestStatusClass verifies statuses are bucketed by class.
func TestRequestStatusClass(t *testing.T) {
	m := NewTestManager()
	m.Request("POST", 201, 0.01)
	m.Request("POST", 404, 0.01)
	if got := testutil.ToFloat64(m.CounterRequests.WithLabelValues("POST", "2xx")); got != 1 {
		t.Errorf("2xx = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CounterRequests.WithLabelValues("POST", "4xx")); got != 1 {
		t.Errorf("4xx = %v, want 1", got)
	}
}

func TestSetupPrometheusCollectors(t *testing.T) {
	reg := SetupPrometheus()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "go_goroutines" {
			found = true
		}
	}
	if !found {
		t.Error("go_goroutines not gathered")
	}
}
