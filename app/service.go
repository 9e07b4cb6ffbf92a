package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/schedlens/api/dashboard"
	"github.com/kilianp07/schedlens/api/insights"
	"github.com/kilianp07/schedlens/config"
	coremetrics "github.com/kilianp07/schedlens/core/metrics"
	"github.com/kilianp07/schedlens/core/report"
	"github.com/kilianp07/schedlens/infra/logger"
	"github.com/kilianp07/schedlens/infra/metrics"
)

// Service wires the report pipeline to the HTTP dashboard.
type Service struct {
	Builder  *report.Builder
	Router   chi.Router
	log      logger.Logger
	addr     string
	shutdown time.Duration
}

// New creates a Service from the configuration, registering metrics on the
// default Prometheus registry.
func New(cfg *config.Config) (*Service, error) {
	return NewWithRegistry(cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates a Service whose metrics live on reg and are served from g.
func NewWithRegistry(cfg *config.Config, reg prometheus.Registerer, g prometheus.Gatherer) (*Service, error) {
	logg := logger.New("service")

	recs := []coremetrics.Recorder{metrics.NewLogRecorder(logger.New("metrics"))}
	if cfg.Metrics.PrometheusEnabled {
		prom, err := metrics.NewPromRecorderWithRegistry(reg)
		if err != nil {
			return nil, fmt.Errorf("prom recorder: %w", err)
		}
		recs = append(recs, prom)
	}
	rec := metrics.NewMultiRecorder(recs...)

	builder := report.NewBuilder(cfg.Report(), logger.New("report"), rec)
	dash, err := dashboard.NewHandler(builder, logger.New("dashboard"))
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger.New("http")))
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics(rec))
	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	dash.RegisterRoutes(r)
	r.Route("/api", func(api chi.Router) {
		api.Use(insights.RequireToken(cfg.Server.APIToken))
		api.Method(http.MethodGet, "/summary", insights.NewSummaryHandler(builder))
		api.Method(http.MethodGet, "/comparison", insights.NewComparisonHandler(builder))
		api.Method(http.MethodGet, "/correlations", insights.NewCorrelationsHandler(builder))
		api.Method(http.MethodGet, "/advisories", insights.NewAdvisoriesHandler(builder))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics.PrometheusEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(g))
	}

	return &Service{
		Builder:  builder,
		Router:   r,
		log:      logg,
		addr:     cfg.Server.Addr,
		shutdown: time.Duration(cfg.Server.ShutdownSeconds) * time.Second,
	}, nil
}

// Run serves the dashboard and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("dashboard listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.log.Infof("dashboard stopped")
	return nil
}

// unmatchedRoute is the route label of requests no pattern matched.
const unmatchedRoute = "unmatched"

func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Infof("%s %s %d %dB %s from %s", r.Method, r.URL.RequestURI(), status, ww.BytesWritten(), time.Since(start), r.RemoteAddr)
		})
	}
}

func requestMetrics(rec coremetrics.Recorder) func(http.Handler) http.Handler {
	rr, ok := rec.(coremetrics.RequestRecorder)
	return func(next http.Handler) http.Handler {
		if !ok {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			_ = rr.RecordRequest(route, status, time.Since(start))
		})
	}
}
