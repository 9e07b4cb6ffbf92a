package scenarios

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/schedlens/core/loader"
	"github.com/kilianp07/schedlens/core/model"
	"github.com/kilianp07/schedlens/core/report"
	"github.com/kilianp07/schedlens/infra/logger"
	"github.com/kilianp07/schedlens/infra/metrics"
)

// RunScenario materialises the scenario sources in a temporary directory,
// builds a report and checks it against the expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom recorder: %v", err)
	}

	dir := t.TempDir()
	sources := make([]loader.Source, len(sc.Sources))
	for i, s := range sc.Sources {
		path := filepath.Join(dir, fileName(s.Label))
		switch {
		case s.Disabled:
			path = ""
		case s.Missing:
		default:
			if err := os.WriteFile(path, []byte(s.CSV), 0o644); err != nil {
				t.Fatalf("write %s: %v", path, err)
			}
		}
		sources[i] = loader.Source{Label: s.Label, Path: path}
	}
	cfg := report.Config{
		Sources: sources,
		Docs:    report.DocsConfig{Narrative: filepath.Join(dir, "Metrics.md"), Implementation: filepath.Join(dir, "DOC.md")},
	}

	rep, err := report.NewBuilder(cfg, logger.NopLogger{}, rec).Build(context.Background())
	exp := sc.Expected
	if exp.NoData {
		if !errors.Is(err, report.ErrNoDataLoaded) {
			t.Fatalf("scenario %s expected ErrNoDataLoaded, got %v", sc.Name, err)
		}
		if v := testutil.ToFloat64(counter(t, reg, "no_data")); v != 1 {
			t.Errorf("scenario %s expected one no_data build, got %v", sc.Name, v)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s build: %v", sc.Name, err)
	}

	if rep.Insights.TotalProcesses != exp.TotalProcesses {
		t.Errorf("total processes: expected %d got %d", exp.TotalProcesses, rep.Insights.TotalProcesses)
	}
	if rep.Insights.AlgorithmsCompared != exp.AlgorithmsCompared {
		t.Errorf("algorithms compared: expected %d got %d", exp.AlgorithmsCompared, rep.Insights.AlgorithmsCompared)
	}
	if exp.BestTurnaround != "" && rep.Insights.BestTurnaround != exp.BestTurnaround {
		t.Errorf("best turnaround: expected %s got %s", exp.BestTurnaround, rep.Insights.BestTurnaround)
	}
	if exp.BestWaiting != "" && rep.Insights.BestWaiting != exp.BestWaiting {
		t.Errorf("best waiting: expected %s got %s", exp.BestWaiting, rep.Insights.BestWaiting)
	}
	for label, want := range exp.Averages {
		checkAverages(t, rep, label, want)
	}
	for _, kind := range exp.Advisories {
		if !hasAdvisory(rep.Advisories, model.AdvisoryKind(kind)) {
			t.Errorf("expected advisory %s in %+v", kind, rep.Advisories)
		}
	}
	for _, label := range exp.Degenerate {
		checkDegenerate(t, rep, label)
	}
	if v := testutil.ToFloat64(counter(t, reg, "ok")); v != 1 {
		t.Errorf("expected one ok build, got %v", v)
	}
}

func counter(t *testing.T, reg *prometheus.Registry, outcome string) prometheus.Collector {
	t.Helper()
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedlens_report_builds_total",
		Help: "Total number of report builds by outcome",
	}, []string{"outcome"})
	if err := reg.Register(vec); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			t.Fatalf("lookup builds counter: %v", err)
		}
		vec = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return vec.WithLabelValues(outcome)
}

func checkAverages(t *testing.T, rep *report.Report, label string, want Averages) {
	t.Helper()
	for _, r := range rep.Comparison.Records {
		if r.Algorithm != label {
			continue
		}
		check := func(name string, want *float64, got float64) {
			if want != nil && math.Abs(*want-got) > 1e-9 {
				t.Errorf("%s avg %s: expected %.4f got %.4f", label, name, *want, got)
			}
		}
		check("turnaround", want.Turnaround, r.AvgTurnaround)
		check("waiting", want.Waiting, r.AvgWaiting)
		check("response", want.Response, r.AvgResponse)
		return
	}
	t.Errorf("no comparison record for %s", label)
}

func checkDegenerate(t *testing.T, rep *report.Report, label string) {
	t.Helper()
	for _, c := range rep.Correlations {
		if c.Algorithm != label {
			continue
		}
		for i, row := range c.Matrix.Values {
			for j, v := range row {
				if i == j && v != 1 {
					t.Errorf("%s diagonal [%d] = %v", label, i, v)
				}
				if i != j && !math.IsNaN(v) {
					t.Errorf("%s [%d][%d] = %v, expected undefined", label, i, j, v)
				}
			}
		}
		return
	}
	t.Errorf("no correlation report for %s", label)
}

func hasAdvisory(adv []model.Advisory, kind model.AdvisoryKind) bool {
	for _, a := range adv {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

func fileName(label string) string {
	return "results_" + strings.ReplaceAll(strings.ToLower(label), " ", "_") + ".csv"
}
