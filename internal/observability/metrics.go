package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "forecast_screen"

// Metrics holds the Prometheus counters, histograms, and gauges for the forecast screen.
type Metrics struct {
	// Fetch metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,network,status,decode,canceled}
	FetchDuration prometheus.Histogram
	FetchInFlight prometheus.Gauge

	// Screen metrics.
	StateTransitions *prometheus.CounterVec // labels: state={loading,content,error}
	ScreenState      *prometheus.GaugeVec   // labels: state; 1 for the active state
	RetryRequests    *prometheus.CounterVec // labels: result={accepted,rejected}
	DriverRunning    prometheus.Gauge

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Forecast fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "WeatherAPI request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FetchInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_in_flight",
			Help:      "1 while a forecast fetch is outstanding.",
		}),
		StateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Screen state transitions by target state.",
		}, []string{"state"}),
		ScreenState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "screen_state",
			Help:      "1 for the state the screen is currently in, 0 otherwise.",
		}, []string{"state"}),
		RetryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_requests_total",
			Help:      "User retry requests by result.",
		}, []string{"result"}),
		DriverRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "driver_running",
			Help:      "1 while the render driver is active, 0 after shutdown.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Forecast snapshots written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed snapshot publishes.",
		}),
	}

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.FetchInFlight,
		m.StateTransitions,
		m.ScreenState,
		m.RetryRequests,
		m.DriverRunning,
		m.SnapshotsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "fetch_requests_total"}, []string{"outcome"}),
		FetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "fetch_duration_seconds"}),
		FetchInFlight:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "fetch_in_flight"}),
		StateTransitions:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "state_transitions_total"}, []string{"state"}),
		ScreenState:        prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "screen_state"}, []string{"state"}),
		RetryRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "retry_requests_total"}, []string{"result"}),
		DriverRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "driver_running"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "snapshots_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "publish_errors_total"}),
	}
}
