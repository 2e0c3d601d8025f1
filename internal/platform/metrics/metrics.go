package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	Airlines         prometheus.Gauge
	Participants     prometheus.Gauge
	BallotsFinalized prometheus.Counter
}

// NewMetrics creates new prometheus metrics on a dedicated registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "The total number of requests by action and outcome",
		}, []string{"action", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time taken to process requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		Airlines: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "airlines",
			Help:      "The number of registered airlines",
		}),
		Participants: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "The number of participating airlines",
		}),
		BallotsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ballots_finalized_total",
			Help:      "The total number of registrations approved by consensus",
		}),
	}
}

// Observe records the outcome and duration of a request.
func (m *Metrics) Observe(action, outcome string, start time.Time) {
	m.Requests.WithLabelValues(action, outcome).Inc()
	m.RequestDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}

// SetCounts updates the airline and participant gauges.
func (m *Metrics) SetCounts(airlines, participants int) {
	m.Airlines.Set(float64(airlines))
	m.Participants.Set(float64(participants))
}
