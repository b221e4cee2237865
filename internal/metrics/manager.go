package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors. A nil *Manager is valid and
// records nothing, so packages can take one optionally.
type Manager struct {
	// counters
	CounterRequests      *prometheus.CounterVec
	CounterDaysCompleted prometheus.Counter
	CounterImports       *prometheus.CounterVec
	CounterCacheLookups  *prometheus.CounterVec

	// gauges
	GaugeDayNumber prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("pplog", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("pplog", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterDaysCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "days_completed_total",
			Help:      "The total number of completed training days",
		}),
		CounterImports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "imports_total",
			Help:      "Backup imports by outcome",
		}, []string{"result"}),
		CounterCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "offline_cache_lookups_total",
			Help:      "Offline cache lookups by result",
		}, []string{"result"}),
		GaugeDayNumber: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rotation_cursor",
			Help:      "Current rotation cursor (next day number)",
		}),
		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// DayCompleted records a completion and the new cursor.
func (m *Manager) DayCompleted(cursor int) {
	if m == nil {
		return
	}
	m.CounterDaysCompleted.Inc()
	m.GaugeDayNumber.Set(float64(cursor))
}

// Cursor records the cursor after a load or import.
func (m *Manager) Cursor(cursor int) {
	if m == nil {
		return
	}
	m.GaugeDayNumber.Set(float64(cursor))
}

// Import records an import outcome ("ok", "format_mismatch", "parse_error", "error").
func (m *Manager) Import(result string) {
	if m == nil {
		return
	}
	m.CounterImports.WithLabelValues(result).Inc()
}

// CacheLookup records an offline cache hit or miss.
func (m *Manager) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CounterCacheLookups.WithLabelValues(result).Inc()
}

// Request records a served request.
func (m *Manager) Request(method string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.CounterRequests.WithLabelValues(method, statusClass(status)).Inc()
	m.HistRequestDuration.Observe(seconds)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
