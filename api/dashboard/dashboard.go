// Package dashboard serves the HTML dashboard and its chart pages.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/schedlens/core/logger"
	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/report"
	"github.com/kilianp07/schedlens/infra/charts"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReportBuilder produces a fresh report per request.
type ReportBuilder interface {
	Build(ctx context.Context) (*report.Report, error)
}

// Handler renders the dashboard. Every request rebuilds the report so edits
// to the result files show up on reload.
type Handler struct {
	builder ReportBuilder
	log     logger.Logger
	page    *template.Template
	errPage *template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(b ReportBuilder, log logger.Logger) (*Handler, error) {
	page, err := template.New("dashboard.html").Funcs(funcs()).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	errPage, err := template.ParseFS(templateFS, "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error template: %w", err)
	}
	return &Handler{builder: b, log: log, page: page, errPage: errPage}, nil
}

// RegisterRoutes mounts the dashboard routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Dashboard)
	r.Get("/charts/comparison", h.ComparisonChart)
	r.Get("/charts/correlation/{algorithm}", h.CorrelationChart)
}

// Dashboard renders the four-tab dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.build(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, newView(rep)); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// ComparisonChart serves the grouped bar chart page.
func (h *Handler) ComparisonChart(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.build(w, r)
	if !ok {
		return
	}
	h.chart(w, charts.Comparison(rep.Comparison.Records))
}

// CorrelationChart serves the heatmap page of one algorithm.
func (h *Handler) CorrelationChart(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carried escapes such as %2F.
	algorithm := chi.URLParam(r, "algorithm")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(algorithm); err == nil {
			algorithm = unescaped
		}
	}
	rep, ok := h.build(w, r)
	if !ok {
		return
	}
	for _, c := range rep.Correlations {
		if c.Algorithm == algorithm {
			h.chart(w, charts.Heatmap(c))
			return
		}
	}
	http.Error(w, fmt.Sprintf("unknown algorithm %q", algorithm), http.StatusNotFound)
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	rep, err := h.builder.Build(r.Context())
	if err != nil {
		h.log.Errorf("dashboard: %v", err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		msg := err.Error()
		if errors.Is(err, report.ErrNoDataLoaded) {
			msg = "No CSV files found. Please check the paths."
		}
		_ = h.errPage.Execute(w, msg)
		return nil, false
	}
	return rep, true
}

func (h *Handler) chart(w http.ResponseWriter, c charts.Renderer) {
	html, err := charts.HTML(c)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.log.Errorf("dashboard: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

type view struct {
	*report.Report
	Rows []row
}

type row struct {
	model.ComparisonRecord
	MinTurnaround bool
	MinWaiting    bool
	MinResponse   bool
}

func newView(rep *report.Report) view {
	v := view{Report: rep, Rows: make([]row, len(rep.Comparison.Records))}
	for i, rec := range rep.Comparison.Records {
		v.Rows[i] = row{ComparisonRecord: rec}
		if i < len(rep.Comparison.Minimum) {
			flags := rep.Comparison.Minimum[i]
			v.Rows[i].MinTurnaround = flags[model.MetricTurnaround]
			v.Rows[i].MinWaiting = flags[model.MetricWaiting]
			v.Rows[i].MinResponse = flags[model.MetricResponse]
		}
	}
	return v
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"fixed2": func(v float64) string { return format(v, 2) },
		"fixed3": func(v float64) string { return format(v, 3) },
		// Labels may hold '/', '?' or '#', which must stay inside one segment.
		"pathEscape": url.PathEscape,
	}
}

// format prints v with the given precision, or "n/a" when undefined.
func format(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", places, v)
}
