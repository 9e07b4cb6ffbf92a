package model

import "fmt"

// ResultRow holds the metrics of one simulated process as written by a
// scheduler simulator, tagged with the policy that produced it.
type ResultRow struct {
	Algorithm  string
	Arrival    float64
	Burst      float64
	Waiting    float64
	Turnaround float64 // not checked against Waiting+Burst
	Response   float64
}

// Metric names a numeric column of a result table.
type Metric string

const (
	MetricArrival    Metric = "arrival"
	MetricBurst      Metric = "burst"
	MetricWaiting    Metric = "waiting"
	MetricTurnaround Metric = "turnaround"
	MetricResponse   Metric = "response"
)

// RequiredColumns lists the CSV header names every result file must carry.
var RequiredColumns = []Metric{MetricArrival, MetricBurst, MetricWaiting, MetricTurnaround, MetricResponse}

// Value returns the field of r addressed by m.
func (m Metric) Value(r ResultRow) float64 {
	switch m {
	case MetricArrival:
		return r.Arrival
	case MetricBurst:
		return r.Burst
	case MetricWaiting:
		return r.Waiting
	case MetricTurnaround:
		return r.Turnaround
	case MetricResponse:
		return r.Response
	default:
		panic(fmt.Sprintf("model: unknown metric %q", string(m)))
	}
}

// String implements fmt.Stringer.
func (m Metric) String() string { return string(m) }

// Table is the concatenation of every successfully loaded result file.
type Table struct {
	Rows []ResultRow
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Labels returns the distinct algorithm labels in order of first appearance.
func (t Table) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, r := range t.Rows {
		if !seen[r.Algorithm] {
			seen[r.Algorithm] = true
			labels = append(labels, r.Algorithm)
		}
	}
	return labels
}

// Subset returns the rows produced by the given algorithm.
func (t Table) Subset(algorithm string) []ResultRow {
	var out []ResultRow
	for _, r := range t.Rows {
		if r.Algorithm == algorithm {
			out = append(out, r)
		}
	}
	return out
}

// Column extracts one metric from rows.
func Column(rows []ResultRow, m Metric) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = m.Value(r)
	}
	return out
}
