// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the dashboard.
//
// A global, pluggable backend defaults to a no-op implementation, so metric
// calls are always safe even when nothing is configured. Concrete systems
// (Prometheus Pushgateway, DogStatsD) live in subpackages.
//
// Backends must be safe for concurrent use: HTTP handlers record from many
// goroutines. SetBackend is meant to be called once during start-up.
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal           = "dashboard_step_total"
	StepDurationSeconds = "dashboard_step_duration_seconds"
	RowsTotal           = "dashboard_rows_total"
	HTTPRequestsTotal   = "dashboard_http_requests_total"
	HTTPDurationSeconds = "dashboard_http_request_duration_seconds"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordStep measures latency and outcome of one pipeline step
// ("load", "clean", "compute") for a dataset. dataset may be empty for
// steps that span all tables.
func RecordStep(step, dataset string, err error, d time.Duration) {
	lbls := Labels{
		"step":    step,
		"dataset": dataset,
		"status":  status(err),
	}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows counts cleaned rows by outcome. Typical kinds are "input",
// "kept", "null" and "unparsable".
func RecordRows(dataset, kind string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"dataset": dataset,
		"kind":    kind,
	})
}

// RecordRequest counts one HTTP request by route template and status code.
func RecordRequest(route string, code int, d time.Duration) {
	lbls := Labels{
		"route": route,
		"code":  codeClass(code),
	}
	backend.IncCounter(HTTPRequestsTotal, 1, lbls)
	backend.ObserveHistogram(HTTPDurationSeconds, d.Seconds(), lbls)
}

// codeClass folds status codes into "2xx".."5xx" to bound cardinality.
func codeClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
