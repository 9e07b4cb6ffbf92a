package metrics

import (
	"errors"
	"testing"
	"time"

	coremetrics "github.com/kilianp07/schedlens/core/metrics"
	"github.com/kilianp07/schedlens/infra/logger"
)

type recordSink struct {
	builds   int
	requests int
	err      error
}

func (r *recordSink) RecordBuild(coremetrics.BuildEvent) error {
	r.builds++
	return r.err
}

func (r *recordSink) RecordRequest(string, int, time.Duration) error {
	r.requests++
	return nil
}

func TestMultiRecorder(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiRecorder(s1, NewLogRecorder(logger.NopLogger{}), s2)
	if err := m.RecordBuild(coremetrics.BuildEvent{Outcome: coremetrics.BuildOK}); err != nil {
		t.Fatalf("record build: %v", err)
	}
	if err := m.RecordRequest("/", 200, time.Millisecond); err != nil {
		t.Fatalf("record request: %v", err)
	}
	if s1.builds != 1 || s2.builds != 1 {
		t.Fatalf("builds not forwarded")
	}
	if s1.requests != 1 || s2.requests != 1 {
		t.Fatalf("requests not forwarded")
	}
}

func TestMultiRecorderStopsOnError(t *testing.T) {
	failing := &recordSink{err: errors.New("boom")}
	after := &recordSink{}
	m := NewMultiRecorder(failing, after)
	if err := m.RecordBuild(coremetrics.BuildEvent{}); err == nil {
		t.Fatal("expected error")
	}
	if after.builds != 0 {
		t.Fatalf("recorder after failure should not be called")
	}
}
