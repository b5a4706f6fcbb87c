package otpgateway

import (
	"time"

	"github.com/akeren/purim-rsvp/pkg/circuitbreaker"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess     = "success"
	resultRejected    = "rejected"
	resultError       = "error"
	resultCircuitOpen = "circuit_open"
)

type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	circuitState    prometheus.Gauge
}

// NewMetrics registers the gateway collectors on reg. A nil reg yields
// working but unexported collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otp_gateway_requests_total",
				Help: "Total number of OTP gateway calls by operation and result.",
			},
			[]string{"operation", "result"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "otp_gateway_request_duration_seconds",
				Help:    "OTP gateway call duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		circuitState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "otp_gateway_circuit_state",
			Help: "Circuit breaker state for the OTP provider: 0 closed, 1 open, 2 half-open.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.requestsTotal, m.requestDuration, m.circuitState)
	}
	return m
}

func (m *Metrics) observe(operation, result string, latency time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(operation, result).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(latency.Seconds())
}

func (m *Metrics) setCircuitState(state circuitbreaker.State) {
	if m == nil {
		return
	}
	m.circuitState.Set(float64(state))
}
