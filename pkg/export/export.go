package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/stats"
)

// Summary is the document written by WriteJSON.
type Summary struct {
	ReportID   string                   `json:"report_id"`
	Comparison []model.ComparisonRecord `json:"comparison"`
	Insights   stats.Insights           `json:"insights"`
	Advisories []model.Advisory         `json:"advisories"`
}

// WriteJSON writes the summary to w as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	if s.Advisories == nil {
		s.Advisories = []model.Advisory{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"algorithm", "avg_turnaround", "avg_waiting", "avg_response", "avg_burst", "processes"}

// WriteCSV writes one row per algorithm with averages rounded to two decimals.
func WriteCSV(w io.Writer, records []model.ComparisonRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			r.Algorithm,
			strconv.FormatFloat(r.AvgTurnaround, 'f', 2, 64),
			strconv.FormatFloat(r.AvgWaiting, 'f', 2, 64),
			strconv.FormatFloat(r.AvgResponse, 'f', 2, 64),
			strconv.FormatFloat(r.AvgBurst, 'f', 2, 64),
			strconv.Itoa(r.ProcessCount),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
