// Package infra contains technical adapters: the zerolog logger, the
// Prometheus recorder, the Sentry monitor and the go-echarts charts. These
// packages depend only on the interfaces defined in the core packages.
package infra
