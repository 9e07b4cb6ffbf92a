package stats

import (
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/schedlens/core/model"
)

// ComparedMetrics are the metrics ranked by the comparison table and sidebar.
var ComparedMetrics = []model.Metric{model.MetricTurnaround, model.MetricWaiting, model.MetricResponse}

// Comparison is the comparison table with its minimum highlighting.
type Comparison struct {
	Records []model.ComparisonRecord
	// Minimum[i][m] reports whether Records[i] holds the lowest average of
	// metric m. Tied minima are all flagged.
	Minimum []map[model.Metric]bool
}

// Compare groups the table by algorithm in order of first appearance and
// averages each metric over exactly the rows of that group.
func Compare(t model.Table) Comparison {
	labels := t.Labels()
	records := make([]model.ComparisonRecord, 0, len(labels))
	for _, label := range labels {
		rows := t.Subset(label)
		records = append(records, model.ComparisonRecord{
			Algorithm:     label,
			AvgTurnaround: stat.Mean(model.Column(rows, model.MetricTurnaround), nil),
			AvgWaiting:    stat.Mean(model.Column(rows, model.MetricWaiting), nil),
			AvgResponse:   stat.Mean(model.Column(rows, model.MetricResponse), nil),
			AvgBurst:      stat.Mean(model.Column(rows, model.MetricBurst), nil),
			ProcessCount:  len(rows),
		})
	}
	return Comparison{Records: records, Minimum: minimumFlags(records)}
}

func minimumFlags(records []model.ComparisonRecord) []map[model.Metric]bool {
	flags := make([]map[model.Metric]bool, len(records))
	for i := range flags {
		flags[i] = make(map[model.Metric]bool, len(ComparedMetrics))
	}
	for _, m := range ComparedMetrics {
		best, ok := bestIndex(records, m)
		if !ok {
			continue
		}
		low := records[best].Average(m)
		for i, r := range records {
			flags[i][m] = r.Average(m) == low
		}
	}
	return flags
}

// Best returns the algorithm with the lowest average for m. Exact ties go to
// the earliest record. ok is false when records is empty.
func Best(records []model.ComparisonRecord, m model.Metric) (algorithm string, ok bool) {
	i, ok := bestIndex(records, m)
	if !ok {
		return "", false
	}
	return records[i].Algorithm, true
}

func bestIndex(records []model.ComparisonRecord, m model.Metric) (int, bool) {
	best := -1
	for i, r := range records {
		v := r.Average(m)
		if v != v { // NaN never wins
			continue
		}
		if best < 0 || v < records[best].Average(m) {
			best = i
		}
	}
	return best, best >= 0
}

// Insights holds the figures of the dashboard sidebar.
type Insights struct {
	BestTurnaround     string `json:"best_turnaround"`
	BestWaiting        string `json:"best_waiting"`
	BestResponse       string `json:"best_response"`
	TotalProcesses     int    `json:"total_processes"`
	AlgorithmsCompared int    `json:"algorithms_compared"`
}

// Summarize builds the sidebar figures. loaded is the number of sources that
// were read successfully, which may exceed len(c.Records) when a file had a
// header but no rows.
func Summarize(c Comparison, totalRows, loaded int) Insights {
	in := Insights{TotalProcesses: totalRows, AlgorithmsCompared: loaded}
	in.BestTurnaround, _ = Best(c.Records, model.MetricTurnaround)
	in.BestWaiting, _ = Best(c.Records, model.MetricWaiting)
	in.BestResponse, _ = Best(c.Records, model.MetricResponse)
	return in
}
