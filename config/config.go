package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/laborplan/core/calibrate"
	"github.com/kilianp07/laborplan/core/feature"
	"github.com/kilianp07/laborplan/core/hours"
	"github.com/kilianp07/laborplan/core/metrics"
	"github.com/kilianp07/laborplan/core/sensitivity"
)

type Config struct {
	Data        DataConfig         `json:"data"`
	Features    feature.Config     `json:"features"`
	Split       SplitConfig        `json:"split"`
	Forecast    ForecastConfig     `json:"forecast"`
	Hours       hours.Config       `json:"hours"`
	Calibration calibrate.Config   `json:"calibration"`
	Sensitivity sensitivity.Config `json:"sensitivity"`
	Metrics     metrics.Config     `json:"metrics"`
	Output      OutputConfig       `json:"output"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Features.SetDefaults()
	cfg.Split.SetDefaults()
	cfg.Forecast.SetDefaults()
	cfg.Hours.SetDefaults()
	cfg.Calibration.SetDefaults()
	cfg.Sensitivity.SetDefaults()
	cfg.Output.SetDefaults()
	if err := cfg.Data.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Features.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Split.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Forecast.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Hours.Validate(); err != nil {
		return nil, err
	}
	// Calibration only runs when a benchmark is configured.
	if cfg.Data.BenchmarkPath != "" {
		if err := cfg.Calibration.Validate(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Sensitivity.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
