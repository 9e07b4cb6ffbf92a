package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/schedlens/core/model"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

// ReadCSV parses a result table with a header row and tags every row with
// label. Columns are matched by name, ignoring case and surrounding spaces;
// columns other than the required ones are ignored.
func ReadCSV(r io.Reader, label string) ([]model.ResultRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []model.ResultRow
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := model.ResultRow{Algorithm: label}
		for _, m := range model.RequiredColumns {
			raw := strings.TrimSpace(rec[idx[m]])
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: invalid number %q", line, m, raw)
			}
			setMetric(&row, m, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func columnIndex(header []string) (map[model.Metric]int, error) {
	idx := make(map[model.Metric]int, len(model.RequiredColumns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		m := model.Metric(name)
		if _, dup := idx[m]; !dup {
			idx[m] = i
		}
	}
	var missing []string
	for _, m := range model.RequiredColumns {
		if _, ok := idx[m]; !ok {
			missing = append(missing, string(m))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func setMetric(r *model.ResultRow, m model.Metric, v float64) {
	switch m {
	case model.MetricArrival:
		r.Arrival = v
	case model.MetricBurst:
		r.Burst = v
	case model.MetricWaiting:
		r.Waiting = v
	case model.MetricTurnaround:
		r.Turnaround = v
	case model.MetricResponse:
		r.Response = v
	}
}
