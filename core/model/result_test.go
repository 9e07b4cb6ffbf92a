package model

import (
	"math"
	"testing"
)

func TestTableLabelsFirstAppearance(t *testing.T) {
	tbl := Table{Rows: []ResultRow{
		{Algorithm: "SJF"}, {Algorithm: "Priority"}, {Algorithm: "SJF"}, {Algorithm: "RR"},
	}}
	got := tbl.Labels()
	want := []string{"SJF", "Priority", "RR"}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
}

func TestTableSubsetAndColumn(t *testing.T) {
	tbl := Table{Rows: []ResultRow{
		{Algorithm: "A", Burst: 1},
		{Algorithm: "B", Burst: 2},
		{Algorithm: "A", Burst: 3},
	}}
	sub := tbl.Subset("A")
	if len(sub) != 2 {
		t.Fatalf("expected 2 rows got %d", len(sub))
	}
	col := Column(sub, MetricBurst)
	if col[0] != 1 || col[1] != 3 {
		t.Fatalf("unexpected column %v", col)
	}
}

func TestMetricValue(t *testing.T) {
	r := ResultRow{Arrival: 1, Burst: 2, Waiting: 3, Turnaround: 4, Response: 5}
	for i, m := range RequiredColumns {
		if m.Value(r) != float64(i+1) {
			t.Fatalf("%s: expected %d got %v", m, i+1, m.Value(r))
		}
	}
}

func TestMatrixAt(t *testing.T) {
	m := CorrelationMatrix{
		Columns: []Metric{MetricBurst, MetricWaiting},
		Values:  [][]float64{{1, 0.5}, {0.5, 1}},
	}
	if v, ok := m.At(MetricWaiting, MetricBurst); !ok || v != 0.5 {
		t.Fatalf("expected 0.5 got %v %v", v, ok)
	}
	if v, ok := m.At(MetricArrival, MetricBurst); ok || !math.IsNaN(v) {
		t.Fatalf("expected missing column")
	}
}

func TestComparisonAverage(t *testing.T) {
	c := ComparisonRecord{AvgTurnaround: 1, AvgWaiting: 2, AvgResponse: 3, AvgBurst: 4}
	if c.Average(MetricWaiting) != 2 || c.Average(MetricBurst) != 4 {
		t.Fatalf("unexpected averages")
	}
	if !math.IsNaN(c.Average(MetricArrival)) {
		t.Fatalf("arrival is not aggregated")
	}
}
