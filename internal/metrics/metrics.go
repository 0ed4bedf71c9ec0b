// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs              *prometheus.CounterVec
	violations        *prometheus.CounterVec
	classifierCalls   *prometheus.CounterVec
	recorderFailures  prometheus.Counter
	extractionFailure prometheus.Counter
	uploadBytes       prometheus.Histogram

	registry *prometheus.Registry
}

// New creates a new Metrics instance with its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minewatch_analysis_runs_total",
			Help: "Analysis runs by final outcome",
		}, []string{"outcome"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minewatch_violations_recorded_total",
			Help: "Violations recorded by detection method and severity",
		}, []string{"method", "severity"}),
		classifierCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minewatch_classifier_calls_total",
			Help: "External classifier calls by result",
		}, []string{"result"}),
		recorderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minewatch_recorder_write_failures_total",
			Help: "Violation writes that failed and were skipped",
		}),
		extractionFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minewatch_frame_extraction_failures_total",
			Help: "Runs that fell back to synthetic frames because sampling failed",
		}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minewatch_upload_bytes",
			Help:    "Size of accepted video uploads",
			Buckets: prometheus.ExponentialBuckets(1<<20, 2, 9),
		}),
	}

	m.registry.MustRegister(
		m.runs,
		m.violations,
		m.classifierCalls,
		m.recorderFailures,
		m.extractionFailure,
		m.uploadBytes,
		collectors.NewGoCollector(),
	)
	return m
}

// RunFinished counts a run by outcome (done|failed)
func (m *Metrics) RunFinished(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

// ViolationRecorded counts one persisted violation
func (m *Metrics) ViolationRecorded(method, severity string) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(method, severity).Inc()
}

// ClassifierCall counts one classifier call (accepted|rejected|error)
func (m *Metrics) ClassifierCall(result string) {
	if m == nil {
		return
	}
	m.classifierCalls.WithLabelValues(result).Inc()
}

func (m *Metrics) RecorderFailure() {
	if m == nil {
		return
	}
	m.recorderFailures.Inc()
}

func (m *Metrics) FrameExtractionFailure() {
	if m == nil {
		return
	}
	m.extractionFailure.Inc()
}

// UploadAccepted observes the size of a stored upload
func (m *Metrics) UploadAccepted(size int64) {
	if m == nil {
		return
	}
	m.uploadBytes.Observe(float64(size))
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns HTTP handler for Prometheus metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
