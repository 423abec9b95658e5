package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SweepsTotal        *prometheus.CounterVec
	FlightsChecked     prometheus.Counter
	PriceUpdates       *prometheus.CounterVec
	ExtractionFailures *prometheus.CounterVec
	SweepDuration      prometheus.Histogram
	AlertsSent         *prometheus.CounterVec
	SearchRequests     *prometheus.CounterVec
	ErrorsCount        *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SweepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_sweeps_total",
			Help:      "The total number of fare monitor sweeps",
		}, []string{"trigger", "outcome"}),
		FlightsChecked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monitored_flights_checked_total",
			Help:      "The total number of monitored flights sent to a fare endpoint",
		}),
		PriceUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_updates_total",
			Help:      "The total number of persisted price updates",
		}, []string{"direction"}),
		ExtractionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_extraction_failures_total",
			Help:      "The total number of checks that produced no price",
		}, []string{"airline", "reason"}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "price_sweep_duration_seconds",
			Help:      "Time taken to run a fare monitor sweep",
			Buckets:   prometheus.DefBuckets,
		}),
		AlertsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_alerts_total",
			Help:      "The total number of price drop alerts",
		}, []string{"channel", "outcome"}),
		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_search_requests_total",
			Help:      "The total number of fare search calls per airline",
		}, []string{"airline", "outcome"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
