package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecasts      prometheus.Counter
	forecastPoints prometheus.Histogram
	advisories     *prometheus.CounterVec
	sessionOps     *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a recorder registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		forecasts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "forecastai_forecasts_total",
				Help: "Total number of forecast projections computed",
			},
		),
		forecastPoints: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "forecastai_forecast_points",
				Help:    "Number of points in computed projections",
				Buckets: prometheus.LinearBuckets(0, 4, 10),
			},
		),
		advisories: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastai_advisory_requests_total",
				Help: "Advisory requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		sessionOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastai_session_operations_total",
				Help: "Dashboard session operations",
			},
			[]string{"op"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecastai_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast records a projection of the given size.
func (r *Recorder) RecordForecast(points int) {
	r.forecasts.Inc()
	r.forecastPoints.Observe(float64(points))
}

// RecordAdvisory records an advisory outcome (succeeded, failed, rejected).
func (r *Recorder) RecordAdvisory(provider, outcome string) {
	r.advisories.WithLabelValues(provider, outcome).Inc()
}

func (r *Recorder) RecordSessionOp(op string) {
	r.sessionOps.WithLabelValues(op).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
