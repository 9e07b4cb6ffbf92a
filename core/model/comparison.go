package model

import "math"

// ComparisonRecord summarises one algorithm across its processes.
type ComparisonRecord struct {
	Algorithm     string  `json:"algorithm"`
	AvgTurnaround float64 `json:"avg_turnaround"`
	AvgWaiting    float64 `json:"avg_waiting"`
	AvgResponse   float64 `json:"avg_response"`
	AvgBurst      float64 `json:"avg_burst"`
	ProcessCount  int     `json:"process_count"`
}

// Average returns the mean value recorded for m.
func (c ComparisonRecord) Average(m Metric) float64 {
	switch m {
	case MetricTurnaround:
		return c.AvgTurnaround
	case MetricWaiting:
		return c.AvgWaiting
	case MetricResponse:
		return c.AvgResponse
	case MetricBurst:
		return c.AvgBurst
	default:
		return math.NaN()
	}
}

// CorrelationMatrix is a symmetric matrix of Pearson coefficients indexed by
// column name. Undefined coefficients are NaN.
type CorrelationMatrix struct {
	Columns []Metric
	Values  [][]float64
}

// At returns the coefficient for the pair (a, b). ok is false when either
// column is not part of the matrix.
func (c CorrelationMatrix) At(a, b Metric) (v float64, ok bool) {
	i, j := c.index(a), c.index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return c.Values[i][j], true
}

func (c CorrelationMatrix) index(m Metric) int {
	for i, col := range c.Columns {
		if col == m {
			return i
		}
	}
	return -1
}

// Pair is one entry of a flattened correlation matrix.
type Pair struct {
	A     Metric  `json:"a"`
	B     Metric  `json:"b"`
	Value float64 `json:"value"`
}
