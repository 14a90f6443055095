// Package calibrate compares the pipeline's implied productivity against an
// externally published benchmark index. Both series are rebased to 100 at a
// shared baseline period; comparing un-rebased levels across different units
// would be meaningless.
package calibrate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

const (
	// PeriodQuarter aggregates by calendar quarter ("2011Q3").
	PeriodQuarter = "quarter"
	// PeriodYear aggregates by calendar year ("2011").
	PeriodYear = "year"
)

// Config holds the calibration parameters.
type Config struct {
	// Period is the aggregation granularity: "quarter" or "year".
	Period string `json:"period"`
	// BaselinePeriod is the period key both indices are rebased to.
	BaselinePeriod string `json:"baseline_period"`
	// Threshold is the relative deviation (as a fraction of the benchmark
	// index) above which a period is flagged.
	Threshold float64 `json:"threshold"`
	// MinProductivity and MaxProductivity bound plausible raw productivity.
	// Zero disables the corresponding bound.
	MinProductivity float64 `json:"min_productivity"`
	MaxProductivity float64 `json:"max_productivity"`
}

// SetDefaults applies quarterly aggregation with a 10% deviation threshold.
func (c *Config) SetDefaults() {
	if c.Period == "" {
		c.Period = PeriodQuarter
	}
	if c.Threshold == 0 {
		c.Threshold = 0.1
	}
}

// Validate rejects unknown periods and thresholds outside [0, 1].
func (c Config) Validate() error {
	if c.Period != PeriodQuarter && c.Period != PeriodYear {
		return &model.ConfigError{Param: "period", Msg: "must be \"quarter\" or \"year\""}
	}
	if c.BaselinePeriod == "" {
		return &model.ConfigError{Param: "baseline_period", Msg: "required"}
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return &model.ConfigError{Param: "threshold", Msg: "must be in [0, 1]"}
	}
	if c.MinProductivity < 0 || c.MaxProductivity < 0 {
		return &model.ConfigError{Param: "min_productivity", Msg: "bounds cannot be negative"}
	}
	if c.MaxProductivity > 0 && c.MinProductivity > c.MaxProductivity {
		return &model.ConfigError{Param: "min_productivity", Msg: "lower bound above upper bound"}
	}
	return nil
}

// Calibrator computes the implied-vs-benchmark productivity index series.
type Calibrator struct {
	cfg Config
}

// NewCalibrator validates the configuration and returns a calibrator.
func NewCalibrator(cfg Config) (*Calibrator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calibrator{cfg: cfg}, nil
}

// PeriodKey maps a date to its aggregation period ("2011" or "2011Q3").
func (c *Calibrator) PeriodKey(date time.Time) string {
	if c.cfg.Period == PeriodYear {
		return fmt.Sprintf("%d", date.Year())
	}
	return fmt.Sprintf("%dQ%d", date.Year(), (int(date.Month())-1)/3+1)
}

// Calibrate aggregates demand and hours per period, derives implied
// productivity as summed demand over summed hours, rebases both the implied
// and benchmark series to 100 at the baseline period and flags periods whose
// relative deviation exceeds the threshold. Only periods present in both
// series are compared. Flags are informational; no upstream data is touched.
func (c *Calibrator) Calibrate(rows []model.HoursRow, benchmark map[string]float64) ([]model.IndexPoint, error) {
	if len(rows) == 0 {
		return nil, &model.InsufficientDataError{Need: 1, Have: 0, Msg: "no hours rows to calibrate"}
	}

	type agg struct{ demand, hours float64 }
	byPeriod := make(map[string]*agg)
	for _, r := range rows {
		key := c.PeriodKey(r.Date)
		a := byPeriod[key]
		if a == nil {
			a = &agg{}
			byPeriod[key] = a
		}
		a.demand += r.Demand
		a.hours += r.TotalHours
	}

	productivity := make(map[string]float64, len(byPeriod))
	for key, a := range byPeriod {
		if a.hours == 0 {
			return nil, &model.ValidationError{Key: key, Msg: "aggregated hours are zero, implied productivity undefined"}
		}
		productivity[key] = a.demand / a.hours
	}

	baseProd, ok := productivity[c.cfg.BaselinePeriod]
	if !ok {
		return nil, &model.ConfigError{Param: "baseline_period", Msg: fmt.Sprintf("no observations in period %q", c.cfg.BaselinePeriod)}
	}
	if baseProd == 0 {
		return nil, &model.ValidationError{Key: c.cfg.BaselinePeriod, Msg: "baseline productivity is zero, cannot rebase"}
	}
	baseBench, ok := benchmark[c.cfg.BaselinePeriod]
	if !ok || baseBench == 0 {
		return nil, &model.ConfigError{Param: "baseline_period", Msg: fmt.Sprintf("benchmark has no usable value for period %q", c.cfg.BaselinePeriod)}
	}

	out := make([]model.IndexPoint, 0, len(productivity))
	for key, prod := range productivity {
		bench, ok := benchmark[key]
		if !ok {
			continue
		}
		p := model.IndexPoint{
			Period:         key,
			Productivity:   prod,
			ImpliedIndex:   100 * prod / baseProd,
			BenchmarkIndex: 100 * bench / baseBench,
		}
		p.DeviationPct = 100 * (p.ImpliedIndex - p.BenchmarkIndex) / p.BenchmarkIndex
		p.Flagged = math.Abs(p.ImpliedIndex-p.BenchmarkIndex)/p.BenchmarkIndex > c.cfg.Threshold
		p.OutOfBounds = (c.cfg.MinProductivity > 0 && prod < c.cfg.MinProductivity) ||
			(c.cfg.MaxProductivity > 0 && prod > c.cfg.MaxProductivity)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}
