package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "fetch_paper"

// request outcomes
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeTransport = "transport_error"
)

// Metrics holds the collectors of a single run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DownloadedBytes prometheus.Counter
	Verifications   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "API requests by endpoint kind and outcome.",
		}, []string{"endpoint", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency by endpoint kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		DownloadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes_total",
			Help:      "Artifact bytes written to disk.",
		}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Checksum verifications by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.Requests, m.RequestDuration, m.DownloadedBytes, m.Verifications)
	return m
}

// ObserveRequest records one API call.
func (m *Metrics) ObserveRequest(endpoint, outcome string, started time.Time) {
	m.Requests.WithLabelValues(endpoint, outcome).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveVerification(ok bool) {
	result := "pass"
	if !ok {
		result = "fail"
	}
	m.Verifications.WithLabelValues(result).Inc()
}

// Push sends the registry to a pushgateway once. An empty url is a no-op.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	return push.New(url, job).Gatherer(m.registry).PushContext(ctx)
}
