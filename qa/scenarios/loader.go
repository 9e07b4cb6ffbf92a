package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SourceDef is one result file of a scenario. CSV is written verbatim unless
// the source is Missing (path points nowhere) or Disabled (blank path).
type SourceDef struct {
	Label    string `yaml:"label"`
	CSV      string `yaml:"csv,omitempty"`
	Missing  bool   `yaml:"missing,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Averages holds expected per-algorithm means; nil fields are not checked.
type Averages struct {
	Turnaround *float64 `yaml:"turnaround,omitempty"`
	Waiting    *float64 `yaml:"waiting,omitempty"`
	Response   *float64 `yaml:"response,omitempty"`
}

type Expected struct {
	NoData             bool                `yaml:"no_data,omitempty"`
	TotalProcesses     int                 `yaml:"total_processes"`
	AlgorithmsCompared int                 `yaml:"algorithms_compared"`
	BestTurnaround     string              `yaml:"best_turnaround,omitempty"`
	BestWaiting        string              `yaml:"best_waiting,omitempty"`
	Averages           map[string]Averages `yaml:"averages,omitempty"`
	Advisories         []string            `yaml:"advisories,omitempty"`
	// Degenerate lists algorithms whose off-diagonal correlations are all undefined.
	Degenerate []string `yaml:"degenerate,omitempty"`
}

type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Sources     []SourceDef `yaml:"sources"`
	Expected    Expected    `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
