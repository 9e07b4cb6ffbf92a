// Package metrics defines the Recorder interface through which the report
// pipeline and HTTP layer publish activity counters. NopRecorder discards
// everything; the Prometheus implementation lives in infra/metrics.
package metrics
