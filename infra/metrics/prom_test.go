package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/schedlens/core/metrics"
)

func TestPromRecorder_RecordBuild(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	ev := coremetrics.BuildEvent{
		Outcome:       coremetrics.BuildOK,
		Duration:      120 * time.Millisecond,
		Sources:       map[string]int{"loaded": 2, "missing": 1},
		Rows:          10,
		AssetsMissing: 1,
	}
	if err := rec.RecordBuild(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := rec.RecordBuild(coremetrics.BuildEvent{Outcome: coremetrics.BuildNoData}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP schedlens_report_builds_total Total number of report builds by outcome
# TYPE schedlens_report_builds_total counter
schedlens_report_builds_total{outcome="no_data"} 1
schedlens_report_builds_total{outcome="ok"} 1
`
	if err := testutil.CollectAndCompare(rec.builds, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if v := testutil.ToFloat64(rec.sources.WithLabelValues("missing")); v != 1 {
		t.Errorf("missing sources = %v", v)
	}
	if v := testutil.ToFloat64(rec.rows); v != 10 {
		t.Errorf("rows gauge = %v, want value from last ok build", v)
	}
	if v := testutil.ToFloat64(rec.assets); v != 1 {
		t.Errorf("assets missing = %v", v)
	}
	if n := testutil.CollectAndCount(rec.duration); n != 1 {
		t.Errorf("expected one histogram, got %d", n)
	}
}

func TestPromRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	_ = second.RecordRequest("/", http.StatusOK, time.Millisecond)
	if v := testutil.ToFloat64(first.requests.WithLabelValues("/", "200")); v != 1 {
		t.Fatalf("expected shared counter, got %v", v)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatal(err)
	}
	_ = rec.RecordRequest("/api/summary", http.StatusOK, 5*time.Millisecond)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `schedlens_http_requests_total{code="200",route="/api/summary"} 1`) {
		t.Fatalf("metric missing from output:\n%s", w.Body.String())
	}
}
