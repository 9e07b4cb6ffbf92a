package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/stats"
)

var records = []model.ComparisonRecord{
	{Algorithm: "Priority", AvgTurnaround: 30, AvgWaiting: 12.5, AvgResponse: 4.333, AvgBurst: 7, ProcessCount: 5},
	{Algorithm: "Round Robin", AvgTurnaround: 25.125, AvgWaiting: 9, AvgResponse: 1, AvgBurst: 6, ProcessCount: 4},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	want := "algorithm,avg_turnaround,avg_waiting,avg_response,avg_burst,processes\n" +
		"Priority,30.00,12.50,4.33,7.00,5\n" +
		"Round Robin,25.12,9.00,1.00,6.00,4\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	s := Summary{
		ReportID:   "r1",
		Comparison: records,
		Insights:   stats.Insights{BestWaiting: "Round Robin", TotalProcesses: 9, AlgorithmsCompared: 2},
	}
	require.NoError(t, WriteJSON(&buf, s))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "r1", out["report_id"])
	assert.Equal(t, []any{}, out["advisories"])
	ins := out["insights"].(map[string]any)
	assert.Equal(t, "Round Robin", ins["best_waiting"])
	assert.Len(t, out["comparison"], 2)
}
