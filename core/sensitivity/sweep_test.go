package sensitivity

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/laborplan/core/model"
)

func mustAnalyzer(t *testing.T, cfg Config) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(cfg)
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	return a
}

func TestSweepDefaultGrid(t *testing.T) {
	a := mustAnalyzer(t, Config{})
	rows, err := a.Sweep([]float64{100, 110, 120, 130}, 10, 8)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("default grid should have 5 scenarios, got %d", len(rows))
	}
	var baseline *model.SensitivityRow
	for i := range rows {
		if rows[i].Baseline {
			baseline = &rows[i]
		}
	}
	if baseline == nil {
		t.Fatalf("unperturbed baseline missing from sweep")
	}
	if baseline.Ratio != 10 || baseline.PctChange != 0 {
		t.Fatalf("baseline row wrong: %+v", baseline)
	}
	// Mean demand 115 at ratio 10 plus 8 baseline hours.
	if math.Abs(baseline.MeanHours-19.5) > 1e-9 {
		t.Fatalf("baseline mean hours = %v, want 19.5", baseline.MeanHours)
	}
	if math.Abs(baseline.TotalHours-78) > 1e-9 {
		t.Fatalf("baseline total hours = %v, want 78", baseline.TotalHours)
	}
	if baseline.MinHours != 18 || baseline.MaxHours != 21 {
		t.Fatalf("min/max wrong: %+v", baseline)
	}
}

func TestSweepMonotonicity(t *testing.T) {
	// Total hours must strictly decrease as the ratio increases.
	a := mustAnalyzer(t, Config{Steps: []float64{-30, -20, -10, 0, 10, 20, 30}})
	rows, err := a.Sweep([]float64{100, 110, 120}, 12.5, 4)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Ratio <= rows[i-1].Ratio {
			t.Fatalf("rows not ordered by ratio")
		}
		if rows[i].TotalHours >= rows[i-1].TotalHours {
			t.Fatalf("total hours not strictly decreasing: %v then %v", rows[i-1].TotalHours, rows[i].TotalHours)
		}
	}
}

func TestSweepBaselineAlwaysIncluded(t *testing.T) {
	a := mustAnalyzer(t, Config{Steps: []float64{-15, 15}})
	rows, err := a.Sweep([]float64{50}, 5, 1)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("baseline should be injected into the grid, got %d rows", len(rows))
	}
	if !rows[1].Baseline {
		t.Fatalf("middle row should be the baseline: %+v", rows)
	}
}

func TestSweepErrors(t *testing.T) {
	a := mustAnalyzer(t, Config{})
	var cerr *model.ConfigError
	if _, err := a.Sweep([]float64{1}, 0, 1); !errors.As(err, &cerr) {
		t.Fatalf("zero ratio should be rejected")
	}
	if _, err := a.Sweep([]float64{1}, -2, 1); !errors.As(err, &cerr) {
		t.Fatalf("negative ratio should be rejected")
	}
	var ierr *model.InsufficientDataError
	if _, err := a.Sweep(nil, 10, 1); !errors.As(err, &ierr) {
		t.Fatalf("empty demand should be InsufficientDataError")
	}
}

func TestConfigValidation(t *testing.T) {
	var cerr *model.ConfigError
	if _, err := NewAnalyzer(Config{Steps: []float64{-100}}); !errors.As(err, &cerr) {
		t.Fatalf("-100%% step should be rejected")
	}
}
