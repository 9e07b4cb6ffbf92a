package metrics

import "time"

// BuildOutcome labels the result of a report build.
type BuildOutcome string

const (
	BuildOK     BuildOutcome = "ok"
	BuildNoData BuildOutcome = "no_data"
	BuildFailed BuildOutcome = "failed"
)

// BuildEvent describes one run of the report pipeline.
type BuildEvent struct {
	Outcome  BuildOutcome
	Duration time.Duration
	// Sources counts attempted sources by status: loaded, missing, invalid, disabled.
	Sources       map[string]int
	Rows          int
	AssetsMissing int
}

// Recorder records report pipeline activity for observability purposes.
type Recorder interface {
	RecordBuild(ev BuildEvent) error
}

// RequestRecorder is implemented by recorders able to count HTTP requests.
type RequestRecorder interface {
	RecordRequest(route string, status int, d time.Duration) error
}

// NopRecorder implements Recorder with no-op methods.
type NopRecorder struct{}

func (NopRecorder) RecordBuild(BuildEvent) error                   { return nil }
func (NopRecorder) RecordRequest(string, int, time.Duration) error { return nil }
