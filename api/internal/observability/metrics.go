// Package observability holds the Prometheus metrics of the detection pipeline.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every collector the service exports.
type Metrics struct {
	ProviderAttempts *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	Detections       *prometheus.CounterVec
	DetectionErrors  *prometheus.CounterVec
	HistoryRetries   prometheus.Counter
	HistoryFailures  prometheus.Counter
	ReportsRendered  *prometheus.CounterVec
	ChatRequests     *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("register agrisakhi metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.ProviderAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrisakhi_classifier_attempts_total",
		Help: "Classification attempts per provider and outcome.",
	}, []string{"provider", "outcome"})

	m.ProviderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agrisakhi_classifier_attempt_duration_seconds",
		Help:    "Duration of classification attempts in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"provider"})

	m.Detections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrisakhi_detections_total",
		Help: "Completed detections by provider source.",
	}, []string{"source"})

	m.DetectionErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrisakhi_detection_errors_total",
		Help: "Failed detections by error category.",
	}, []string{"category"})

	m.HistoryRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrisakhi_history_write_retries_total",
		Help: "History writes retried with only the newest record.",
	})

	m.HistoryFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrisakhi_history_write_failures_total",
		Help: "History writes that failed after the retry.",
	})

	m.ReportsRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrisakhi_reports_rendered_total",
		Help: "PDF reports rendered by theme.",
	}, []string{"theme"})

	m.ChatRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrisakhi_chat_requests_total",
		Help: "Assistant chat requests by outcome.",
	}, []string{"outcome"})
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ProviderAttempts, m.ProviderDuration,
		m.Detections, m.DetectionErrors,
		m.HistoryRetries, m.HistoryFailures,
		m.ReportsRendered, m.ChatRequests,
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordProviderAttempt satisfies classifier.AttemptRecorder.
func (m *Metrics) RecordProviderAttempt(provider string, ok bool, seconds float64) {
	m.ProviderAttempts.WithLabelValues(provider, outcome(ok)).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(seconds)
}

func (m *Metrics) RecordDetection(source string) {
	m.Detections.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordDetectionError(category string) {
	m.DetectionErrors.WithLabelValues(category).Inc()
}

func (m *Metrics) RecordHistoryRetry() { m.HistoryRetries.Inc() }

func (m *Metrics) RecordHistoryFailure() { m.HistoryFailures.Inc() }

func (m *Metrics) RecordReport(theme string) {
	m.ReportsRendered.WithLabelValues(theme).Inc()
}

// RecordChat takes one of the chat package outcome labels.
func (m *Metrics) RecordChat(outcome string) {
	m.ChatRequests.WithLabelValues(outcome).Inc()
}
