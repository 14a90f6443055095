package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `data:
  records_path: "records.csv"
  benchmark_path: "benchmark.csv"
features:
  lags: [1, 2, 4]
  windows: [4, 8]
split:
  holdout_periods: 8
forecast:
  models:
    - type: "naive"
    - type: "ridge"
      conf:
        lambdas: [0.1, 1]
hours:
  unit: "sales"
  ratio: 250
  baseline_hours: 40
calibration:
  period: "quarter"
  baseline_period: "2011Q1"
  threshold: 0.1
sensitivity:
  steps: [-30, -15, 0, 15, 30]
metrics:
  sinks:
    - type: "nop"
output:
  dir: "out"
  format: "csv"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"records_path", cfg.Data.RecordsPath, "records.csv"},
		{"benchmark_path", cfg.Data.BenchmarkPath, "benchmark.csv"},
		{"lags", len(cfg.Features.Lags), 3},
		{"holdout_periods", cfg.Split.HoldoutPeriods, 8},
		{"models", len(cfg.Forecast.Models), 2},
		{"ridge_type", cfg.Forecast.Models[1].Type, "ridge"},
		{"ratio", cfg.Hours.Ratio, 250.0},
		{"baseline_hours", cfg.Hours.BaselineHours, 40.0},
		{"baseline_period", cfg.Calibration.BaselinePeriod, "2011Q1"},
		{"sensitivity_steps", len(cfg.Sensitivity.Steps), 5},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"output_dir", cfg.Output.Dir, "out"},
		{"output_format", cfg.Output.Format, "csv"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `data:
  records_path: "records.csv"
hours:
  ratio: 250
calibration:
  baseline_period: "2011Q1"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Split.HoldoutPeriods != 12 {
		t.Errorf("holdout default = %d, want 12", cfg.Split.HoldoutPeriods)
	}
	if len(cfg.Forecast.Models) != 4 {
		t.Errorf("model roster default = %d, want 4", len(cfg.Forecast.Models))
	}
	if cfg.Hours.Unit != "sales" {
		t.Errorf("unit default = %q, want sales", cfg.Hours.Unit)
	}
	if cfg.Calibration.Threshold != 0.1 {
		t.Errorf("threshold default = %v, want 0.1", cfg.Calibration.Threshold)
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("format default = %q, want csv", cfg.Output.Format)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `data:
  records_path: "records.csv"
hours:
  ratio: -1
calibration:
  baseline_period: "2011Q1"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("negative ratio should fail validation")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("unsupported extension should fail")
	}
}
