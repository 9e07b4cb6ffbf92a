package metrics

import (
	coremetrics "github.com/kilianp07/schedlens/core/metrics"
	"github.com/kilianp07/schedlens/infra/logger"
)

// LogRecorder writes a structured debug line for every report build.
type LogRecorder struct {
	log logger.Logger
}

// NewLogRecorder returns a recorder logging through log. A nil logger is replaced by a NopLogger.
func NewLogRecorder(log logger.Logger) *LogRecorder {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &LogRecorder{log: log}
}

func (l *LogRecorder) RecordBuild(ev coremetrics.BuildEvent) error {
	l.log.Debugw("report build", map[string]any{
		"outcome":        string(ev.Outcome),
		"duration_ms":    ev.Duration.Milliseconds(),
		"rows":           ev.Rows,
		"sources":        ev.Sources,
		"assets_missing": ev.AssetsMissing,
	})
	return nil
}
