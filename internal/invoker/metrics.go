package invoker

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes besides the transport failure categories.
const (
	OutcomeSuccess    = "success"
	OutcomeApplyError = "apply_error"
)

// Metrics collects request statistics as Prometheus collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the invoker collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actionwire",
			Subsystem: "invoker",
			Name:      "requests_total",
			Help:      "Action requests, by action and outcome.",
		}, []string{"action", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "actionwire",
			Subsystem: "invoker",
			Name:      "request_duration_seconds",
			Help:      "Time from request to response, by action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("invoker: register metrics: %w", err)
			}
		}
	}
	return m, nil
}

// RecordRequest records one completed request. The query part of action is
// dropped.
func (m *Metrics) RecordRequest(action, outcome string, d time.Duration) {
	action, _, _ = strings.Cut(action, "?")
	m.requests.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(d.Seconds())
}
