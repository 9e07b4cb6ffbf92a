package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/schedlens/core/model"
)

// CorrelationColumns is the fixed column set of every correlation matrix.
var CorrelationColumns = []model.Metric{
	model.MetricBurst, model.MetricTurnaround, model.MetricWaiting, model.MetricResponse, model.MetricArrival,
}

// TopK is the number of strongest positive correlations reported.
const TopK = 3

// BurstImpact is the correlation of burst time with each outcome metric.
type BurstImpact struct {
	Turnaround float64 `json:"turnaround"`
	Waiting    float64 `json:"waiting"`
	Response   float64 `json:"response"`
}

// CorrelationReport gathers the correlation views of one algorithm.
type CorrelationReport struct {
	Algorithm string
	Rows      int
	Matrix    model.CorrelationMatrix
	Top       []model.Pair
	Burst     BurstImpact
}

// Correlate computes a CorrelationReport per algorithm in order of first
// appearance in t.
func Correlate(t model.Table) ([]CorrelationReport, error) {
	labels := t.Labels()
	out := make([]CorrelationReport, 0, len(labels))
	for _, label := range labels {
		rows := t.Subset(label)
		m := Matrix(rows, CorrelationColumns)
		burst, err := Burst(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		out = append(out, CorrelationReport{
			Algorithm: label,
			Rows:      len(rows),
			Matrix:    m,
			Top:       TopCorrelations(m, TopK),
			Burst:     burst,
		})
	}
	return out, nil
}

// Matrix returns the Pearson correlation matrix of cols over rows. The
// diagonal is 1. Off-diagonal entries are NaN when fewer than two rows are
// given or a column has zero variance.
func Matrix(rows []model.ResultRow, cols []model.Metric) model.CorrelationMatrix {
	n := len(cols)
	data := make([][]float64, n)
	for i, c := range cols {
		data[i] = model.Column(rows, c)
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, pearson(data[i], data[j]))
		}
	}
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		for j := range values[i] {
			values[i][j] = sym.At(i, j)
		}
	}
	return model.CorrelationMatrix{Columns: append([]model.Metric(nil), cols...), Values: values}
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, r))
}

// TopCorrelations flattens m row-major, so both (a,b) and (b,a) are
// candidates, drops NaN entries and entries equal to 1, and returns the k
// largest values. Equal values keep their flattened order.
func TopCorrelations(m model.CorrelationMatrix, k int) []model.Pair {
	var pairs []model.Pair
	for i, a := range m.Columns {
		for j, b := range m.Columns {
			v := m.Values[i][j]
			if math.IsNaN(v) || v >= 1.0 {
				continue
			}
			pairs = append(pairs, model.Pair{A: a, B: b, Value: v})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Value > pairs[j].Value })
	if len(pairs) > k {
		pairs = pairs[:k]
	}
	return pairs
}

// Burst looks up the burst-impact triple in m.
func Burst(m model.CorrelationMatrix) (BurstImpact, error) {
	var out BurstImpact
	targets := []struct {
		metric model.Metric
		dst    *float64
	}{
		{model.MetricTurnaround, &out.Turnaround},
		{model.MetricWaiting, &out.Waiting},
		{model.MetricResponse, &out.Response},
	}
	for _, tgt := range targets {
		v, ok := m.At(model.MetricBurst, tgt.metric)
		if !ok {
			return BurstImpact{}, fmt.Errorf("correlation matrix lacks burst/%s", tgt.metric)
		}
		*tgt.dst = v
	}
	return out, nil
}
