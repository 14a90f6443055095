package config

import (
	"github.com/kilianp07/laborplan/core/factory"
	"github.com/kilianp07/laborplan/core/model"
)

// DataConfig locates the input files.
type DataConfig struct {
	// RecordsPath is the demand record CSV.
	RecordsPath string `json:"records_path"`
	// BenchmarkPath is the external productivity index CSV. Empty disables
	// calibration.
	BenchmarkPath string `json:"benchmark_path"`
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if c.RecordsPath == "" {
		return &model.ConfigError{Param: "data.records_path", Msg: "required"}
	}
	return nil
}

// SplitConfig controls the temporal train/test partition.
type SplitConfig struct {
	// HoldoutPeriods is the number of trailing distinct dates held out for
	// testing.
	HoldoutPeriods int `json:"holdout_periods"`
}

// SetDefaults holds out the last 12 periods.
func (c *SplitConfig) SetDefaults() {
	if c.HoldoutPeriods == 0 {
		c.HoldoutPeriods = 12
	}
}

// Validate rejects non-positive holdouts.
func (c SplitConfig) Validate() error {
	if c.HoldoutPeriods <= 0 {
		return &model.ConfigError{Param: "split.holdout_periods", Msg: "must be positive"}
	}
	return nil
}

// ForecastConfig selects the forecaster variants to fit and compare.
type ForecastConfig struct {
	Models []factory.ModuleConfig `json:"models"`
}

// SetDefaults fits the full model roster.
func (c *ForecastConfig) SetDefaults() {
	if len(c.Models) == 0 {
		c.Models = []factory.ModuleConfig{
			{Type: "naive"},
			{Type: "seasonal"},
			{Type: "moving_average"},
			{Type: "ridge"},
		}
	}
}

// Validate checks every model block names a type. Unknown types surface later
// at registry lookup.
func (c ForecastConfig) Validate() error {
	for _, m := range c.Models {
		if m.Type == "" {
			return &model.ConfigError{Param: "forecast.models", Msg: "model block without a type"}
		}
	}
	return nil
}

// OutputConfig controls where and how tabular outputs are written.
type OutputConfig struct {
	// Dir is the output directory. Empty disables file output.
	Dir string `json:"dir"`
	// Format is "csv" or "json".
	Format string `json:"format"`
}

// SetDefaults writes CSV files.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate rejects unknown formats.
func (c OutputConfig) Validate() error {
	if c.Format != "csv" && c.Format != "json" {
		return &model.ConfigError{Param: "output.format", Msg: "must be \"csv\" or \"json\""}
	}
	return nil
}
