package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/schedlens/core/loader"
	"github.com/kilianp07/schedlens/core/metrics"
	"github.com/kilianp07/schedlens/core/report"
)

// EnvPrefix prefixes environment overrides. SCHEDLENS_SERVER__ADDR sets server.addr.
const EnvPrefix = "SCHEDLENS_"

type Config struct {
	Sources []loader.Source   `json:"sources"`
	Docs    report.DocsConfig `json:"docs"`
	Server  ServerConfig      `json:"server"`
	Metrics metrics.Config    `json:"metrics"`
	Logging LoggingConfig     `json:"logging"`
	Sentry  SentryConfig      `json:"sentry"`
}

// Load reads the configuration file at path and applies environment
// overrides. When optional is true a missing file is not an error and the
// defaults are used instead.
func Load(path string, optional bool) (*Config, error) {
	k := koanf.New(".")
	if err := k.Set("metrics.prometheus_enabled", true); err != nil {
		return nil, err
	}
	if err := loadFile(k, path, optional); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string, optional bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config format: %s", ext)
	}
	return k.Load(file.Provider(path), parser)
}

// SetDefaults applies the layout expected next to the scheduler simulators.
func (c *Config) SetDefaults() {
	if len(c.Sources) == 0 {
		c.Sources = []loader.Source{
			{Label: "Priority", Path: "metrics/results_priority.csv"},
			{Label: "Round Robin", Path: "metrics/results_rr.csv"},
			{Label: "SJF", Path: "metrics/results_sjf.csv"},
			{Label: "MLQ", Path: ""},
		}
	}
	if c.Docs.Narrative == "" {
		c.Docs.Narrative = "Metrics.md"
	}
	if c.Docs.Implementation == "" {
		c.Docs.Implementation = "../scheduler-cli-1.0.0/DOCUMENTAION.md"
	}
	if c.Docs.Images == nil {
		c.Docs.Images = []report.Image{
			{ID: "correlation_spectrum.png", Path: "assets/correlation_coefficient.png"},
			{ID: "cm_sjf.png", Path: "assets/cm_sjf.png"},
			{ID: "cm_rr.png", Path: "assets/cm_rr.png"},
			{ID: "cm_priority.png", Path: "assets/cm_priority.png"},
		}
	}
	c.Server.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			return fmt.Errorf("sources[%d]: label is required", i)
		}
		if seen[label] {
			return fmt.Errorf("sources[%d]: duplicate label %q", i, label)
		}
		seen[label] = true
	}
	ids := make(map[string]bool, len(c.Docs.Images))
	for i, img := range c.Docs.Images {
		if img.ID == "" || img.Path == "" {
			return fmt.Errorf("docs.images[%d]: id and path are required", i)
		}
		if ids[img.ID] {
			return fmt.Errorf("docs.images[%d]: duplicate id %q", i, img.ID)
		}
		ids[img.ID] = true
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Report returns the inputs of the report pipeline.
func (c Config) Report() report.Config {
	return report.Config{Sources: c.Sources, Docs: c.Docs}
}
