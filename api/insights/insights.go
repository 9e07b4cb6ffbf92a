// Package insights exposes the report figures as JSON.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/report"
	"github.com/kilianp07/schedlens/core/stats"
)

// ReportBuilder produces a fresh report per request.
type ReportBuilder interface {
	Build(ctx context.Context) (*report.Report, error)
}

// Summary is the payload of GET /api/summary.
type Summary struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Loaded      []string         `json:"loaded"`
	Insights    stats.Insights   `json:"insights"`
	Advisories  []model.Advisory `json:"advisories"`
}

// ComparisonRow is one row of GET /api/comparison. Minimum lists the metrics
// for which the algorithm has the lowest average.
type ComparisonRow struct {
	model.ComparisonRecord
	Minimum []model.Metric `json:"minimum"`
}

// Correlation is the JSON view of a stats.CorrelationReport. Undefined
// coefficients are null.
type Correlation struct {
	Algorithm string         `json:"algorithm"`
	Rows      int            `json:"rows"`
	Columns   []model.Metric `json:"columns"`
	Matrix    [][]*float64   `json:"matrix"`
	Top       []Pair         `json:"top"`
	Burst     Burst          `json:"burst_impact"`
}

// Pair is one strongest-correlation entry.
type Pair struct {
	A     model.Metric `json:"a"`
	B     model.Metric `json:"b"`
	Value *float64     `json:"value"`
}

// Burst holds the correlation of burst time with each outcome metric.
type Burst struct {
	Turnaround *float64 `json:"turnaround"`
	Waiting    *float64 `json:"waiting"`
	Response   *float64 `json:"response"`
}

// NewSummaryHandler returns the handler of GET /api/summary.
func NewSummaryHandler(b ReportBuilder) http.Handler {
	return reportHandler(b, func(rep *report.Report) any {
		adv := rep.Advisories
		if adv == nil {
			adv = []model.Advisory{}
		}
		return Summary{
			ID:          rep.ID,
			GeneratedAt: rep.GeneratedAt,
			Loaded:      rep.Loaded,
			Insights:    rep.Insights,
			Advisories:  adv,
		}
	})
}

// NewComparisonHandler returns the handler of GET /api/comparison.
func NewComparisonHandler(b ReportBuilder) http.Handler {
	return reportHandler(b, func(rep *report.Report) any {
		return comparisonRows(rep.Comparison)
	})
}

// NewCorrelationsHandler returns the handler of GET /api/correlations.
func NewCorrelationsHandler(b ReportBuilder) http.Handler {
	return reportHandler(b, func(rep *report.Report) any {
		out := make([]Correlation, 0, len(rep.Correlations))
		for _, c := range rep.Correlations {
			out = append(out, correlationView(c))
		}
		return out
	})
}

// NewAdvisoriesHandler returns the handler of GET /api/advisories.
func NewAdvisoriesHandler(b ReportBuilder) http.Handler {
	return reportHandler(b, func(rep *report.Report) any {
		if rep.Advisories == nil {
			return []model.Advisory{}
		}
		return rep.Advisories
	})
}

// RequireToken rejects requests lacking "Authorization: Bearer <token>".
// An empty token disables the check.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reportHandler(b ReportBuilder, view func(*report.Report) any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rep, err := b.Build(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view(rep)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func comparisonRows(c stats.Comparison) []ComparisonRow {
	out := make([]ComparisonRow, len(c.Records))
	for i, rec := range c.Records {
		row := ComparisonRow{ComparisonRecord: rec, Minimum: []model.Metric{}}
		for _, m := range stats.ComparedMetrics {
			if i < len(c.Minimum) && c.Minimum[i][m] {
				row.Minimum = append(row.Minimum, m)
			}
		}
		out[i] = row
	}
	return out
}

func correlationView(c stats.CorrelationReport) Correlation {
	matrix := make([][]*float64, len(c.Matrix.Values))
	for i, row := range c.Matrix.Values {
		matrix[i] = make([]*float64, len(row))
		for j, v := range row {
			matrix[i][j] = number(v)
		}
	}
	top := make([]Pair, len(c.Top))
	for i, p := range c.Top {
		top[i] = Pair{A: p.A, B: p.B, Value: number(p.Value)}
	}
	return Correlation{
		Algorithm: c.Algorithm,
		Rows:      c.Rows,
		Columns:   c.Matrix.Columns,
		Matrix:    matrix,
		Top:       top,
		Burst: Burst{
			Turnaround: number(c.Burst.Turnaround),
			Waiting:    number(c.Burst.Waiting),
			Response:   number(c.Burst.Response),
		},
	}
}

// number maps NaN and infinities to nil so they encode as JSON null.
func number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
