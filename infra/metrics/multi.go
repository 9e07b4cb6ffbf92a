package metrics

import (
	"time"

	coremetrics "github.com/kilianp07/schedlens/core/metrics"
)

// MultiRecorder fans out events to multiple recorders.
type MultiRecorder struct {
	Recorders []coremetrics.Recorder
}

// NewMultiRecorder creates a MultiRecorder with the provided recorders.
func NewMultiRecorder(recs ...coremetrics.Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

// RecordBuild forwards the event to all recorders, returning the first error encountered.
func (m *MultiRecorder) RecordBuild(ev coremetrics.BuildEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordBuild(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest forwards request metrics when supported by the recorder.
func (m *MultiRecorder) RecordRequest(route string, status int, d time.Duration) error {
	for _, r := range m.Recorders {
		if rr, ok := r.(coremetrics.RequestRecorder); ok {
			if err := rr.RecordRequest(route, status, d); err != nil {
				return err
			}
		}
	}
	return nil
}
