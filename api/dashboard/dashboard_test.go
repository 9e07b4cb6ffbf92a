package dashboard

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/schedlens/core/docs"
	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/report"
	"github.com/kilianp07/schedlens/core/stats"
	"github.com/kilianp07/schedlens/infra/logger"
)

type stubBuilder struct {
	rep *report.Report
	err error
}

func (s stubBuilder) Build(context.Context) (*report.Report, error) { return s.rep, s.err }

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	table := model.Table{Rows: []model.ResultRow{
		{Algorithm: "Priority", Arrival: 0, Burst: 4, Waiting: 10, Turnaround: 14, Response: 10},
		{Algorithm: "Priority", Arrival: 1, Burst: 6, Waiting: 15, Turnaround: 21, Response: 15},
		{Algorithm: "Round Robin", Arrival: 0, Burst: 5, Waiting: 9, Turnaround: 14, Response: 2},
	}}
	cmp := stats.Compare(table)
	corr, err := stats.Correlate(table)
	require.NoError(t, err)
	return &report.Report{
		ID:           "3f1c",
		GeneratedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Loaded:       []string{"Priority", "Round Robin"},
		Table:        table,
		Comparison:   cmp,
		Correlations: corr,
		Insights:     stats.Summarize(cmp, table.Len(), 2),
		Narrative:    docs.Section{Path: "Metrics.md", HTML: "<h1>Metrics</h1>"},
		Implementation: docs.Section{
			Path: "DOC.md",
			Err:  "Documentation file 'DOC.md' not found. Please ensure it exists in the project directory.",
		},
		Advisories: []model.Advisory{{Kind: model.SourceMissing, Subject: "SJF", Message: "CSV for SJF not found at sjf.csv, skipping."}},
	}
}

func newRouter(t *testing.T, b ReportBuilder) http.Handler {
	t.Helper()
	h, err := NewHandler(b, logger.NopLogger{})
	require.NoError(t, err)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestDashboardRendersTabs(t *testing.T) {
	rr := get(t, newRouter(t, stubBuilder{rep: sampleReport(t)}), "/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	for _, want := range []string{
		"Summary Statistics", "Comparative Analysis", "Statistical Insights", "Documentation",
		"Best Waiting: <strong>Round Robin</strong>",
		"Total Processes Analyzed: <strong>3</strong>",
		"Algorithms Compared: <strong>2</strong>",
		"CSV for SJF not found at sjf.csv, skipping.",
		"17.50", "12.50",
		"<h1>Metrics</h1>",
		"Documentation file &#39;DOC.md&#39; not found.",
		`/charts/correlation/Round%20Robin`,
		"Report 3f1c generated 2024-05-01 12:00:00",
	} {
		assert.Contains(t, body, want)
	}
	assert.Equal(t, 3, strings.Count(body, `class="min"`))
	assert.Contains(t, body, "On Turnaround: n/a")
}

func TestDashboardNoData(t *testing.T) {
	err := fmt.Errorf("build report: %w", report.ErrNoDataLoaded)
	rr := get(t, newRouter(t, stubBuilder{err: err}), "/")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "No CSV files found. Please check the paths.")
	assert.NotContains(t, rr.Body.String(), "Quick Insights")
}

func TestComparisonChart(t *testing.T) {
	rr := get(t, newRouter(t, stubBuilder{rep: sampleReport(t)}), "/charts/comparison")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Average Metrics by Algorithm")
}

func TestCorrelationChart(t *testing.T) {
	router := newRouter(t, stubBuilder{rep: sampleReport(t)})

	rr := get(t, router, "/charts/correlation/Round%20Robin")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Round Robin Correlation Heatmap")

	rr = get(t, router, "/charts/correlation/FCFS")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCorrelationLinksFollowLabels(t *testing.T) {
	table := model.Table{Rows: []model.ResultRow{
		{Algorithm: "SJF/SRTF", Arrival: 0, Burst: 4, Waiting: 1, Turnaround: 5, Response: 1},
		{Algorithm: "RR?q=2", Arrival: 0, Burst: 5, Waiting: 9, Turnaround: 14, Response: 2},
		{Algorithm: "MLQ#1", Arrival: 2, Burst: 3, Waiting: 4, Turnaround: 7, Response: 4},
		{Algorithm: "Round Robin", Arrival: 1, Burst: 2, Waiting: 3, Turnaround: 5, Response: 1},
	}}
	corr, err := stats.Correlate(table)
	require.NoError(t, err)
	rep := sampleReport(t)
	rep.Table = table
	rep.Comparison = stats.Compare(table)
	rep.Correlations = corr
	router := newRouter(t, stubBuilder{rep: rep})

	rr := get(t, router, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	srcs := regexp.MustCompile(`src="(/charts/correlation/[^"]+)"`).FindAllStringSubmatch(rr.Body.String(), -1)
	require.Len(t, srcs, len(corr))

	for i, m := range srcs {
		want := corr[i].Algorithm
		res := get(t, router, m[1])
		if res.Code != http.StatusOK {
			t.Fatalf("label %q: GET %s returned %d", want, m[1], res.Code)
		}
		assert.Contains(t, res.Body.String(), want+" Correlation Heatmap")
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "n/a", format(math.NaN(), 3))
	assert.Equal(t, "0.500", format(0.5, 3))
	assert.Equal(t, "30.00", format(30, 2))
}
