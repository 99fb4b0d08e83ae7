package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}
	if m.QueriesTotal == nil || m.QueryDurationSeconds == nil {
		t.Error("query metrics are nil")
	}
	if m.ExtractionsTotal == nil || m.LLMCallsTotal == nil || m.LLMDurationSeconds == nil {
		t.Error("extraction metrics are nil")
	}
	if m.WebhookRequestsTotal == nil || m.WebhookDurationSeconds == nil {
		t.Error("webhook metrics are nil")
	}
	if m.HTTPErrorsTotal == nil || m.RateLimiterDropped == nil {
		t.Error("error metrics are nil")
	}
	if m.RecordsLoaded == nil || m.SeedRowsTotal == nil {
		t.Error("dataset metrics are nil")
	}
}

func TestRecordQuery(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordQuery("single", "http", 0.01)
	m.RecordQuery("single", "http", 0.02)
	m.RecordQuery("ambiguous", "line", 0.5)

	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("single", "http")); got != 2 {
		t.Errorf("single/http = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("ambiguous", "line")); got != 1 {
		t.Errorf("ambiguous/line = %v, want 1", got)
	}
}

func TestRecordExtractionAndLLM(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordExtraction("ok", "")
	m.RecordExtraction("unavailable", "timeout")
	m.RecordLLMCall("gemini", "success", 0.4)
	m.RecordLLMCall("groq", "error", 1.2)

	if got := testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("unavailable", "timeout")); got != 1 {
		t.Errorf("unavailable/timeout = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LLMCallsTotal.WithLabelValues("groq", "error")); got != 1 {
		t.Errorf("groq/error = %v, want 1", got)
	}
}

func TestDatasetMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.SetRecordsLoaded(42)
	m.RecordSeedRows("file", 40)
	m.RecordSeedRows("file", 2)
	m.RecordRateLimiterDrop("client")
	m.RecordHTTPError("bad_request", "/chat")
	m.RecordWebhook("message", "success", 0.1)

	if got := testutil.ToFloat64(m.RecordsLoaded); got != 42 {
		t.Errorf("RecordsLoaded = %v, want 42", got)
	}
	if got := testutil.ToFloat64(m.SeedRowsTotal.WithLabelValues("file")); got != 42 {
		t.Errorf("SeedRowsTotal = %v, want 42", got)
	}
	if got := testutil.ToFloat64(m.RateLimiterDropped.WithLabelValues("client")); got != 1 {
		t.Errorf("RateLimiterDropped = %v, want 1", got)
	}
}
