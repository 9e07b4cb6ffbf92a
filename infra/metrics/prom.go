package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/schedlens/core/metrics"
)

// PromRecorder records report builds and dashboard requests in Prometheus metrics.
type PromRecorder struct {
	builds   *prometheus.CounterVec
	duration prometheus.Histogram
	sources  *prometheus.CounterVec
	rows     prometheus.Gauge
	assets   prometheus.Counter
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewPromRecorder registers the metrics on the default Prometheus registerer.
func NewPromRecorder() (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// that are already registered are reused.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PromRecorder{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedlens_report_builds_total",
			Help: "Total number of report builds by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schedlens_report_build_seconds",
			Help:    "Time spent building the scheduling report",
			Buckets: prometheus.DefBuckets,
		}),
		sources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedlens_sources_total",
			Help: "Result sources seen by report builds, by status",
		}, []string{"status"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedlens_result_rows",
			Help: "Number of result rows loaded by the last successful build",
		}),
		assets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedlens_assets_missing_total",
			Help: "Documentation images that could not be embedded",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedlens_http_requests_total",
			Help: "Dashboard HTTP requests by route and status code",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schedlens_http_request_seconds",
			Help:    "Dashboard HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	var err error
	if r.builds, err = register(reg, r.builds); err != nil {
		return nil, err
	}
	if r.duration, err = register(reg, r.duration); err != nil {
		return nil, err
	}
	if r.sources, err = register(reg, r.sources); err != nil {
		return nil, err
	}
	if r.rows, err = register(reg, r.rows); err != nil {
		return nil, err
	}
	if r.assets, err = register(reg, r.assets); err != nil {
		return nil, err
	}
	if r.requests, err = register(reg, r.requests); err != nil {
		return nil, err
	}
	if r.latency, err = register(reg, r.latency); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordBuild updates the build counters and histogram.
func (r *PromRecorder) RecordBuild(ev coremetrics.BuildEvent) error {
	r.builds.WithLabelValues(string(ev.Outcome)).Inc()
	r.duration.Observe(ev.Duration.Seconds())
	for status, n := range ev.Sources {
		r.sources.WithLabelValues(status).Add(float64(n))
	}
	if ev.Outcome == coremetrics.BuildOK {
		r.rows.Set(float64(ev.Rows))
	}
	r.assets.Add(float64(ev.AssetsMissing))
	return nil
}

// RecordRequest counts one served HTTP request.
func (r *PromRecorder) RecordRequest(route string, status int, d time.Duration) error {
	r.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(route).Observe(d.Seconds())
	return nil
}
