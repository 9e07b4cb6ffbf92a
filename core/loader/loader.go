package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kilianp07/schedlens/core/logger"
	"github.com/kilianp07/schedlens/core/model"
)

// ErrNoDataLoaded is returned when every configured source was missing,
// disabled or unreadable.
var ErrNoDataLoaded = errors.New("no result data loaded")

// Source associates an algorithm label with the location of its result file.
// An empty Path disables the source.
type Source struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Result is the outcome of a load pass.
type Result struct {
	Table model.Table
	// Loaded lists the labels whose file was parsed, in source order.
	Loaded     []string
	Advisories []model.Advisory
}

// Loader reads result files from the local filesystem.
type Loader struct {
	log logger.Logger
}

// New returns a Loader logging through log.
func New(log logger.Logger) *Loader {
	return &Loader{log: log}
}

// Load attempts every source and merges the rows that could be read.
//
//gocyclo:ignore
func (l *Loader) Load(sources []Source) (Result, error) {
	var res Result
	for _, src := range sources {
		if strings.TrimSpace(src.Path) == "" {
			l.log.Debugf("source %s disabled", src.Label)
			continue
		}
		rows, err := readFile(src)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			res.warn(l.log, model.Advisory{
				Kind:    model.SourceMissing,
				Subject: src.Label,
				Message: fmt.Sprintf("CSV for %s not found at %s, skipping.", src.Label, src.Path),
			})
			continue
		case err != nil:
			res.warn(l.log, model.Advisory{
				Kind:    model.SourceInvalid,
				Subject: src.Label,
				Message: fmt.Sprintf("CSV for %s at %s could not be read: %v, skipping.", src.Label, src.Path, err),
			})
			continue
		}
		if len(rows) == 0 {
			res.warn(l.log, model.Advisory{
				Kind:    model.SourceEmpty,
				Subject: src.Label,
				Message: fmt.Sprintf("CSV for %s at %s contains no rows.", src.Label, src.Path),
			})
		}
		res.Loaded = append(res.Loaded, src.Label)
		res.Table.Rows = append(res.Table.Rows, rows...)
		l.log.Debugw("source loaded", map[string]any{"label": src.Label, "path": src.Path, "rows": len(rows)})
	}
	if res.Table.Len() == 0 {
		return res, fmt.Errorf("%w: check the configured CSV paths", ErrNoDataLoaded)
	}
	return res, nil
}

func (r *Result) warn(log logger.Logger, a model.Advisory) {
	r.Advisories = append(r.Advisories, a)
	log.Warnw(a.Message, map[string]any{"kind": string(a.Kind), "subject": a.Subject})
}

func readFile(src Source) ([]model.ResultRow, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f, src.Label)
}
