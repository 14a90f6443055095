// Package sensitivity quantifies how the hours plan reacts to the
// productivity-ratio assumption. Sweeping the ratio around its baseline gives
// planners a risk band: the forecast error is one source of staffing risk,
// the ratio assumption is the other.
package sensitivity

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/laborplan/core/model"
)

// Config holds the sweep parameters.
type Config struct {
	// Steps are the percentage perturbations applied to the baseline ratio.
	// A zero entry is the unperturbed baseline itself.
	Steps []float64 `json:"steps"`
}

// SetDefaults applies the reference grid of ±30% in 15-point steps.
func (c *Config) SetDefaults() {
	if len(c.Steps) == 0 {
		c.Steps = []float64{-30, -15, 0, 15, 30}
	}
}

// Validate rejects perturbations that drive the ratio to zero or below.
func (c Config) Validate() error {
	for _, s := range c.Steps {
		if s <= -100 {
			return &model.ConfigError{Param: "steps", Msg: "perturbation at or below -100% yields a non-positive ratio"}
		}
	}
	return nil
}

// Analyzer sweeps candidate productivity ratios over a demand series.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer validates the configuration and returns an analyzer.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Sweep recomputes total hours for the full demand series under each
// perturbed ratio and summarises the distribution per scenario. The
// unperturbed baseline is always one of the returned rows, so relative deltas
// need no separate call. Rows come back ordered by ratio ascending.
func (a *Analyzer) Sweep(demand []float64, baselineRatio, baselineHours float64) ([]model.SensitivityRow, error) {
	if baselineRatio <= 0 {
		return nil, &model.ConfigError{Param: "ratio", Msg: "baseline productivity ratio must be positive"}
	}
	if len(demand) == 0 {
		return nil, &model.InsufficientDataError{Need: 1, Have: 0, Msg: "no demand values to sweep"}
	}

	steps := append([]float64(nil), a.cfg.Steps...)
	if !contains(steps, 0) {
		steps = append(steps, 0)
	}
	sort.Float64s(steps)

	out := make([]model.SensitivityRow, len(steps))
	for i, pct := range steps {
		ratio := baselineRatio * (1 + pct/100)
		out[i] = scenario(demand, ratio, pct, baselineHours)
	}
	return out, nil
}

// scenario computes the hours distribution for one candidate ratio.
func scenario(demand []float64, ratio, pct, baselineHours float64) model.SensitivityRow {
	hours := make([]float64, len(demand))
	var total float64
	min, max := demand[0]/ratio+baselineHours, demand[0]/ratio+baselineHours
	for i, d := range demand {
		h := d/ratio + baselineHours
		hours[i] = h
		total += h
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	sort.Float64s(hours)
	return model.SensitivityRow{
		Ratio:       ratio,
		PctChange:   pct,
		MeanHours:   stat.Mean(hours, nil),
		MedianHours: stat.Quantile(0.5, stat.Empirical, hours, nil),
		TotalHours:  total,
		MinHours:    min,
		MaxHours:    max,
		Baseline:    pct == 0,
	}
}

func contains(xs []float64, v float64) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
