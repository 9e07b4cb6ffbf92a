package monitoring

import (
	"sync"
	"time"
)

// Monitor reports failures of the report pipeline and the HTTP server.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	// ReportPanic records a recovered panic value. The caller re-panics.
	ReportPanic(v any)
	Flush(timeout time.Duration)
}

// NopMonitor discards every event.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) ReportPanic(any)                           {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the global monitor implementation. A nil monitor restores the no-op one.
func Init(m Monitor) {
	if m == nil {
		m = NopMonitor{}
	}
	mu.Lock()
	current = m
	mu.Unlock()
}

func get() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	get().CaptureException(err, tags)
}

// Recover reports a panic in progress and re-panics. It must be deferred
// directly so that recover sees the panic.
func Recover() {
	if r := recover(); r != nil {
		m := get()
		m.ReportPanic(r)
		m.Flush(2 * time.Second)
		panic(r)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	get().Flush(d)
}
