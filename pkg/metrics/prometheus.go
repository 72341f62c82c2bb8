package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	resolutions      *prometheus.CounterVec
	providerRequests *prometheus.CounterVec
	publishes        *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg.
// A nil reg registers on the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_p_resolutions_total",
				Help: "Ticker resolutions by the tier that answered",
			},
			[]string{"source"},
		),
		providerRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_p_provider_requests_total",
				Help: "Outbound provider calls by result",
			},
			[]string{"provider", "result"},
		),
		publishes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_p_publish_total",
				Help: "Analysis envelopes by publish mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_p_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "service_p_last_price",
				Help: "Last fetched price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "service_p_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordResolution records which tier answered a symbol lookup.
func (r *Recorder) RecordResolution(source string) {
	r.resolutions.WithLabelValues(source).Inc()
}

// RecordProviderRequest records the outcome of one provider attempt.
func (r *Recorder) RecordProviderRequest(provider, result string) {
	r.providerRequests.WithLabelValues(provider, result).Inc()
}

// RecordPublish records a publish outcome.
func (r *Recorder) RecordPublish(mode, outcome string) {
	r.publishes.WithLabelValues(mode, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
