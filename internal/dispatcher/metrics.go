package dispatcher

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels a single dispatch.
type Outcome string

// Dispatch outcomes.
const (
	OutcomeOK      Outcome = "ok"
	OutcomeError   Outcome = "error"
	OutcomeUnknown Outcome = "unknown"
	OutcomeInvalid Outcome = "invalid"
)

// unknownTypeLabel replaces the type label of unregistered types so server
// input cannot create series.
const unknownTypeLabel = "_unregistered"

// Metrics collects dispatch statistics as Prometheus collectors.
type Metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	panics     *prometheus.CounterVec
	batchSize  prometheus.Histogram
}

// NewMetrics creates the dispatcher collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actionwire",
			Subsystem: "dispatch",
			Name:      "operations_total",
			Help:      "Operations dispatched, by type and outcome.",
		}, []string{"type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "actionwire",
			Subsystem: "dispatch",
			Name:      "handler_duration_seconds",
			Help:      "Handler execution time, by type.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"type"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "actionwire",
			Subsystem: "dispatch",
			Name:      "handler_panics_total",
			Help:      "Recovered handler panics, by type.",
		}, []string{"type"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "actionwire",
			Subsystem: "dispatch",
			Name:      "batch_size",
			Help:      "Number of operations per applied batch.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.dispatches, m.duration, m.panics, m.batchSize} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("dispatcher: register metrics: %w", err)
			}
		}
	}
	return m, nil
}

// RecordDispatch records one dispatch.
func (m *Metrics) RecordDispatch(typeName string, outcome Outcome, d time.Duration) {
	if outcome == OutcomeUnknown {
		typeName = unknownTypeLabel
	}
	m.dispatches.WithLabelValues(typeName, string(outcome)).Inc()
	if outcome == OutcomeOK || outcome == OutcomeError {
		m.duration.WithLabelValues(typeName).Observe(d.Seconds())
	}
}

// RecordPanic records a recovered handler panic.
func (m *Metrics) RecordPanic(typeName string) {
	m.panics.WithLabelValues(typeName).Inc()
}

// RecordBatch records the size of an applied batch.
func (m *Metrics) RecordBatch(n int) {
	m.batchSize.Observe(float64(n))
}
