// Package charts renders the dashboard visualisations with go-echarts.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/stats"
)

// BarMetrics are the series of the grouped comparison chart, in legend order.
var BarMetrics = []model.Metric{model.MetricTurnaround, model.MetricWaiting, model.MetricResponse}

// RdBu palette from strong negative to strong positive correlation.
var diverging = []string{
	"#053061", "#2166ac", "#4393c3", "#92c5de", "#d1e5f0", "#f7f7f7",
	"#fddbc7", "#f4a582", "#d6604d", "#b2182b", "#67001f",
}

// Comparison builds the grouped bar chart of average times per algorithm.
func Comparison(records []model.ComparisonRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Average Metrics by Algorithm",
			Subtitle: "lower is better",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Algorithm",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Time",
			Type: "value",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "420px",
		}),
	)

	labels := make([]string, len(records))
	for i, r := range records {
		labels[i] = r.Algorithm
	}
	bar.SetXAxis(labels)
	for _, m := range BarMetrics {
		data := make([]opts.BarData, len(records))
		for i, r := range records {
			data[i] = opts.BarData{Value: round(r.Average(m), 2)}
		}
		bar.AddSeries(seriesName(m), data)
	}
	return bar
}

// Heatmap builds the annotated correlation heatmap of one algorithm.
// Undefined coefficients are drawn as empty cells.
func Heatmap(rep stats.CorrelationReport) *charts.HeatMap {
	hm := charts.NewHeatMap()
	names := make([]string, len(rep.Matrix.Columns))
	for i, c := range rep.Matrix.Columns {
		names[i] = c.String()
	}
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s Correlation Heatmap", rep.Algorithm),
			Subtitle: fmt.Sprintf("%d processes", rep.Rows),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      names,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange: &opts.VisualMapInRange{
				Color: diverging,
			},
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "420px",
		}),
	)

	data := make([]opts.HeatMapData, 0, len(names)*len(names))
	for i, row := range rep.Matrix.Values {
		for j, v := range row {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, cell(v)}})
		}
	}
	hm.SetXAxis(names).AddSeries("Pearson r", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return hm
}

// Page assembles the comparison chart and every heatmap into one static page.
func Page(title string, records []model.ComparisonRecord, reports []stats.CorrelationReport) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(Comparison(records))
	for _, rep := range reports {
		page.AddCharts(Heatmap(rep))
	}
	return page
}

// Renderer is implemented by every go-echarts chart and page.
type Renderer interface {
	Render(w io.Writer) error
}

// HTML renders r to a string.
func HTML(r Renderer) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.String(), nil
}

func seriesName(m model.Metric) string {
	switch m {
	case model.MetricTurnaround:
		return "Avg Turnaround"
	case model.MetricWaiting:
		return "Avg Waiting"
	case model.MetricResponse:
		return "Avg Response"
	default:
		return m.String()
	}
}

// cell returns the heatmap value; echarts treats "-" as a missing point.
func cell(v float64) interface{} {
	if math.IsNaN(v) {
		return "-"
	}
	return round(v, 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
