package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"energydash/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// readCounterValue reads the current value of a Counter for assertions in tests.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL returns error", jobName: "dash", wantErr: true},
		{name: "empty job name uses default", gatewayURL: "http://pushgateway:9091", wantJobName: "energydash"},
		{name: "explicit job name is preserved", jobName: "eu", gatewayURL: "http://pushgateway:9091", wantJobName: "eu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend(%q, %q) = %v, %v; want nil, error", tt.jobName, tt.gatewayURL, b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend(%q, %q) error = %v", tt.jobName, tt.gatewayURL, err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

func TestIncCounter_Routes(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("dash", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "load", "dataset": "energy", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 7, metrics.Labels{"dataset": "energy", "kind": "kept"})
	b.IncCounter(metrics.RowsTotal, 3, metrics.Labels{"dataset": "energy", "kind": "kept"})
	b.IncCounter(metrics.HTTPRequestsTotal, 2, metrics.Labels{"route": "/health", "code": "2xx"})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"foo": "bar"})

	if got := readCounterValue(t, b.stepCounter.WithLabelValues("load", "energy", "success")); got != 1 {
		t.Errorf("step counter = %v, want 1", got)
	}
	if got := readCounterValue(t, b.rowCounter.WithLabelValues("energy", "kept")); got != 10 {
		t.Errorf("row counter = %v, want 10", got)
	}
	if got := readCounterValue(t, b.httpCounter.WithLabelValues("/health", "2xx")); got != 2 {
		t.Errorf("http counter = %v, want 2", got)
	}
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("dash", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.ObserveHistogram(metrics.StepDurationSeconds, 1.5, metrics.Labels{"step": "clean", "dataset": "emissions", "status": "success"})
	b.ObserveHistogram(metrics.HTTPDurationSeconds, 0.2, metrics.Labels{"route": "/api/v1/view", "code": "2xx"})
	b.ObserveHistogram("other", 9, nil)

	m := &dto.Metric{}
	if err := b.stepDuration.WithLabelValues("clean", "emissions", "success").(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if s := m.GetSummary(); s.GetSampleCount() != 1 || s.GetSampleSum() != 1.5 {
		t.Fatalf("summary = count %d sum %v, want 1, 1.5", s.GetSampleCount(), s.GetSampleSum())
	}

	m = &dto.Metric{}
	if err := b.httpDuration.WithLabelValues("/api/v1/view", "2xx").(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if h := m.GetHistogram(); h.GetSampleCount() != 1 {
		t.Fatalf("histogram count = %d, want 1", h.GetSampleCount())
	}
}

func TestNilCollectors(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{})
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{})
	b.IncCounter(metrics.HTTPRequestsTotal, 1, metrics.Labels{})
	b.ObserveHistogram(metrics.StepDurationSeconds, 1, metrics.Labels{})
	b.ObserveHistogram(metrics.HTTPDurationSeconds, 1, metrics.Labels{})
}

func TestFlush(t *testing.T) {
	t.Parallel()

	type pushRequestInfo struct {
		method  string
		path    string
		bodyLen int
	}
	reqCh := make(chan pushRequestInfo, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushRequestInfo{method: r.Method, path: r.URL.Path, bodyLen: len(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("dash-job", server.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"dataset": "energy", "kind": "kept"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got pushRequestInfo
	select {
	case got = <-reqCh:
	default:
		t.Fatalf("Flush() did not send any request to the Pushgateway")
	}
	if got.method != http.MethodPut {
		t.Fatalf("method = %q, want PUT", got.method)
	}
	if got.path != "/metrics/job/dash-job" {
		t.Fatalf("path = %q", got.path)
	}
	if got.bodyLen == 0 {
		t.Fatalf("push body is empty")
	}
}

func BenchmarkIncCounterRows(b *testing.B) {
	backend, err := NewBackend("dash", "http://example.com")
	if err != nil {
		b.Fatalf("NewBackend() error = %v", err)
	}
	labels := metrics.Labels{"dataset": "energy", "kind": "kept"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.IncCounter(metrics.RowsTotal, 1, labels)
	}
}
