package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/schedlens/core/docs"
	"github.com/kilianp07/schedlens/core/loader"
	"github.com/kilianp07/schedlens/core/logger"
	"github.com/kilianp07/schedlens/core/metrics"
	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/monitoring"
	"github.com/kilianp07/schedlens/core/stats"
)

// ErrNoDataLoaded is returned by Build when no source produced any row.
var ErrNoDataLoaded = loader.ErrNoDataLoaded

// Image maps a markdown placeholder identifier to an image file.
type Image struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// DocsConfig locates the documentation rendered by the dashboard.
type DocsConfig struct {
	Narrative      string  `json:"narrative"`
	Implementation string  `json:"implementation"`
	Images         []Image `json:"images"`
}

// ImageMapping returns the images as placeholder -> path.
func (c DocsConfig) ImageMapping() map[string]string {
	m := make(map[string]string, len(c.Images))
	for _, img := range c.Images {
		m[img.ID] = img.Path
	}
	return m
}

// Config gathers every input of a report build.
type Config struct {
	Sources []loader.Source
	Docs    DocsConfig
}

// Report holds every data product rendered by the dashboard.
type Report struct {
	ID          string
	GeneratedAt time.Time
	// Loaded lists the sources read successfully, in configuration order.
	Loaded         []string
	Table          model.Table
	Comparison     stats.Comparison
	Correlations   []stats.CorrelationReport
	Insights       stats.Insights
	Narrative      docs.Section
	Implementation docs.Section
	Advisories     []model.Advisory
}

// Builder runs the report pipeline. It keeps no state between builds.
type Builder struct {
	cfg    Config
	loader *loader.Loader
	docs   *docs.Renderer
	log    logger.Logger
	rec    metrics.Recorder
	now    func() time.Time
}

// NewBuilder returns a Builder for cfg. A nil recorder disables metrics.
func NewBuilder(cfg Config, log logger.Logger, rec metrics.Recorder) *Builder {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Builder{
		cfg:    cfg,
		loader: loader.New(log),
		docs:   docs.NewRenderer(),
		log:    log,
		rec:    rec,
		now:    time.Now,
	}
}

// Build reads every input from scratch and computes the report. Only
// ErrNoDataLoaded (wrapped) and context cancellation are returned as errors;
// every other problem is attached to the report as an advisory.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := b.now()
	ev := metrics.BuildEvent{Sources: map[string]int{}}
	defer func() {
		ev.Duration = b.now().Sub(start)
		if err := b.rec.RecordBuild(ev); err != nil {
			b.log.Errorf("record build: %v", err)
		}
	}()

	loaded, err := b.loader.Load(b.cfg.Sources)
	countSources(&ev, b.cfg.Sources, loaded)
	if err != nil {
		ev.Outcome = metrics.BuildNoData
		if !errors.Is(err, ErrNoDataLoaded) {
			ev.Outcome = metrics.BuildFailed
		}
		monitoring.CaptureException(err, map[string]string{"component": "report"})
		b.log.Errorf("build report: %v", err)
		return nil, fmt.Errorf("build report: %w", err)
	}
	ev.Rows = loaded.Table.Len()

	rep := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: start,
		Loaded:      loaded.Loaded,
		Table:       loaded.Table,
		Advisories:  append([]model.Advisory(nil), loaded.Advisories...),
	}
	rep.Comparison = stats.Compare(loaded.Table)
	rep.Insights = stats.Summarize(rep.Comparison, loaded.Table.Len(), len(loaded.Loaded))
	rep.Correlations, err = stats.Correlate(loaded.Table)
	if err != nil {
		ev.Outcome = metrics.BuildFailed
		return nil, fmt.Errorf("correlate: %w", err)
	}

	var adv []model.Advisory
	rep.Narrative, adv = b.docs.Load(b.cfg.Docs.Narrative, b.cfg.Docs.ImageMapping())
	rep.Advisories = append(rep.Advisories, b.warn(adv)...)
	rep.Implementation, adv = b.docs.Load(b.cfg.Docs.Implementation, nil)
	rep.Advisories = append(rep.Advisories, b.warn(adv)...)
	for _, a := range rep.Advisories {
		if a.Kind == model.AssetMissing {
			ev.AssetsMissing++
		}
	}

	ev.Outcome = metrics.BuildOK
	b.log.Debugw("report built", map[string]any{
		"id":         rep.ID,
		"rows":       ev.Rows,
		"algorithms": len(rep.Loaded),
		"advisories": len(rep.Advisories),
	})
	return rep, nil
}

func (b *Builder) warn(adv []model.Advisory) []model.Advisory {
	for _, a := range adv {
		b.log.Warnw(a.Message, map[string]any{"kind": string(a.Kind), "subject": a.Subject})
	}
	return adv
}

func countSources(ev *metrics.BuildEvent, sources []loader.Source, res loader.Result) {
	ev.Sources["loaded"] = len(res.Loaded)
	for _, a := range res.Advisories {
		switch a.Kind {
		case model.SourceMissing:
			ev.Sources["missing"]++
		case model.SourceInvalid:
			ev.Sources["invalid"]++
		}
	}
	for _, s := range sources {
		if strings.TrimSpace(s.Path) == "" {
			ev.Sources["disabled"]++
		}
	}
}
