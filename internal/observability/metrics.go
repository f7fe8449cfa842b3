package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the weather proxy.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec   // labels: route, status
	HTTPDuration     *prometheus.HistogramVec // labels: route
	UpstreamRequests *prometheus.CounterVec   // labels: outcome={success,error}
	UpstreamDuration prometheus.Histogram
	WeatherErrors    *prometheus.CounterVec // labels: kind
	VotesRecorded    *prometheus.CounterVec // labels: choice={yes,no}
	VotesChanged     prometheus.Counter
	LedgerBackups    *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.WeatherErrors,
		m.VotesRecorded,
		m.VotesChanged,
		m.LedgerBackups,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_proxy",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "upstream_requests_total",
			Help:      "Citypage feed requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_proxy",
			Name:      "upstream_request_duration_seconds",
			Help:      "Citypage feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "weather_errors_total",
			Help:      "Weather lookups that failed, by error kind.",
		}, []string{"kind"}),
		VotesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "votes_recorded_total",
			Help:      "Votes recorded by choice.",
		}, []string{"choice"}),
		VotesChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "votes_changed_total",
			Help:      "Votes moved from one choice to another.",
		}),
		LedgerBackups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "ledger_backups_total",
			Help:      "Vote ledger backups by outcome.",
		}, []string{"outcome"}),
	}
}
