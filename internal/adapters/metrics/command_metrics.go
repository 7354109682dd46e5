package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for mediator requests
const (
	outcomeSuccess   = "success"
	outcomeError     = "error"
	outcomeCancelled = "cancelled"
)

// CommandMetricsCollector observes the commands and queries sent through the mediator
type CommandMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight prometheus.Gauge
}

// NewCommandMetricsCollector creates the mediator collectors
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "request_duration_seconds",
				Help:      "Time spent handling a command or query",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"request", "outcome"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "requests_total",
				Help:      "Commands and queries handled by request type and outcome",
			},
			[]string{"request", "outcome"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "requests_in_flight",
				Help:      "Commands and queries currently being handled",
			},
		),
	}
}

// Register adds the collectors to the global registry
func (c *CommandMetricsCollector) Register() error {
	return register(c.duration, c.total, c.inFlight)
}

// begin marks a request as started and returns the function that records its end
func (c *CommandMetricsCollector) begin(request string) func(err error) {
	start := time.Now()
	c.inFlight.Inc()
	return func(err error) {
		c.inFlight.Dec()
		outcome := outcomeOf(err)
		c.duration.WithLabelValues(request, outcome).Observe(time.Since(start).Seconds())
		c.total.WithLabelValues(request, outcome).Inc()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCancelled
	default:
		return outcomeError
	}
}
