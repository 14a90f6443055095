package calibrate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hoursRow(t time.Time, demand, hours float64) model.HoursRow {
	return model.HoursRow{EntityID: "A", Date: t, Demand: demand, TotalHours: hours}
}

func mustCalibrator(t *testing.T, cfg Config) *Calibrator {
	t.Helper()
	c, err := NewCalibrator(cfg)
	if err != nil {
		t.Fatalf("new calibrator: %v", err)
	}
	return c
}

func TestPeriodKeys(t *testing.T) {
	q := mustCalibrator(t, Config{BaselinePeriod: "2011Q1"})
	if got := q.PeriodKey(date(2011, time.November, 5)); got != "2011Q4" {
		t.Fatalf("quarter key = %q", got)
	}
	if got := q.PeriodKey(date(2011, time.March, 31)); got != "2011Q1" {
		t.Fatalf("quarter key = %q", got)
	}
	y := mustCalibrator(t, Config{Period: PeriodYear, BaselinePeriod: "2011"})
	if got := y.PeriodKey(date(2011, time.November, 5)); got != "2011" {
		t.Fatalf("year key = %q", got)
	}
}

func TestRebaseToHundredAtBaseline(t *testing.T) {
	c := mustCalibrator(t, Config{BaselinePeriod: "2011Q1"})
	rows := []model.HoursRow{
		hoursRow(date(2011, time.January, 10), 1000, 100), // Q1: prod 10
		hoursRow(date(2011, time.April, 10), 1200, 100),   // Q2: prod 12
	}
	bench := map[string]float64{"2011Q1": 50, "2011Q2": 55}
	points, err := c.Calibrate(rows, bench)
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	base := points[0]
	if base.Period != "2011Q1" {
		t.Fatalf("points not sorted by period: %+v", points)
	}
	if base.ImpliedIndex != 100 || base.BenchmarkIndex != 100 {
		t.Fatalf("baseline period must rebase to exactly 100: %+v", base)
	}
	q2 := points[1]
	if math.Abs(q2.ImpliedIndex-120) > 1e-9 {
		t.Fatalf("implied index = %v, want 120", q2.ImpliedIndex)
	}
	if math.Abs(q2.BenchmarkIndex-110) > 1e-9 {
		t.Fatalf("benchmark index = %v, want 110", q2.BenchmarkIndex)
	}
}

func TestDeviationFlagging(t *testing.T) {
	c := mustCalibrator(t, Config{BaselinePeriod: "2011Q1", Threshold: 0.05})
	rows := []model.HoursRow{
		hoursRow(date(2011, time.January, 10), 1000, 100), // prod 10, index 100
		hoursRow(date(2011, time.April, 10), 1200, 100),   // prod 12, index 120
		hoursRow(date(2011, time.July, 10), 1040, 100),    // prod 10.4, index 104
	}
	bench := map[string]float64{"2011Q1": 100, "2011Q2": 100, "2011Q3": 100}
	points, err := c.Calibrate(rows, bench)
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	byPeriod := map[string]model.IndexPoint{}
	for _, p := range points {
		byPeriod[p.Period] = p
	}
	if byPeriod["2011Q1"].Flagged {
		t.Fatalf("baseline period cannot deviate from itself")
	}
	if !byPeriod["2011Q2"].Flagged {
		t.Fatalf("20%% deviation above a 5%% threshold must be flagged")
	}
	if byPeriod["2011Q3"].Flagged {
		t.Fatalf("4%% deviation below a 5%% threshold must not be flagged")
	}
	if math.Abs(byPeriod["2011Q2"].DeviationPct-20) > 1e-9 {
		t.Fatalf("deviation pct = %v, want 20", byPeriod["2011Q2"].DeviationPct)
	}
}

func TestPlausibilityBounds(t *testing.T) {
	c := mustCalibrator(t, Config{BaselinePeriod: "2011Q1", MinProductivity: 5, MaxProductivity: 11})
	rows := []model.HoursRow{
		hoursRow(date(2011, time.January, 10), 1000, 100), // prod 10: in bounds
		hoursRow(date(2011, time.April, 10), 1500, 100),   // prod 15: above max
	}
	bench := map[string]float64{"2011Q1": 100, "2011Q2": 100}
	points, err := c.Calibrate(rows, bench)
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	for _, p := range points {
		switch p.Period {
		case "2011Q1":
			if p.OutOfBounds {
				t.Fatalf("in-bounds productivity marked out of bounds")
			}
		case "2011Q2":
			if !p.OutOfBounds {
				t.Fatalf("productivity 15 above max 11 not marked")
			}
		}
	}
}

func TestPeriodsMissingFromBenchmarkAreSkipped(t *testing.T) {
	c := mustCalibrator(t, Config{BaselinePeriod: "2011Q1"})
	rows := []model.HoursRow{
		hoursRow(date(2011, time.January, 10), 1000, 100),
		hoursRow(date(2011, time.April, 10), 1200, 100),
	}
	points, err := c.Calibrate(rows, map[string]float64{"2011Q1": 100})
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	if len(points) != 1 || points[0].Period != "2011Q1" {
		t.Fatalf("only periods in both series are comparable: %+v", points)
	}
}

func TestCalibrateErrors(t *testing.T) {
	c := mustCalibrator(t, Config{BaselinePeriod: "2011Q1"})

	var ierr *model.InsufficientDataError
	if _, err := c.Calibrate(nil, nil); !errors.As(err, &ierr) {
		t.Fatalf("empty input should be InsufficientDataError")
	}

	var cerr *model.ConfigError
	rows := []model.HoursRow{hoursRow(date(2011, time.April, 10), 1000, 100)}
	if _, err := c.Calibrate(rows, map[string]float64{"2011Q2": 100}); !errors.As(err, &cerr) {
		t.Fatalf("baseline period absent from data should be ConfigError")
	}
	rows = []model.HoursRow{hoursRow(date(2011, time.January, 10), 1000, 100)}
	if _, err := c.Calibrate(rows, map[string]float64{"2011Q2": 100}); !errors.As(err, &cerr) {
		t.Fatalf("baseline period absent from benchmark should be ConfigError")
	}

	var verr *model.ValidationError
	zero := []model.HoursRow{hoursRow(date(2011, time.January, 10), 1000, 0)}
	if _, err := c.Calibrate(zero, map[string]float64{"2011Q1": 100}); !errors.As(err, &verr) {
		t.Fatalf("zero aggregated hours should be ValidationError")
	}
}

func TestConfigValidation(t *testing.T) {
	var cerr *model.ConfigError
	if _, err := NewCalibrator(Config{BaselinePeriod: "2011Q1", Threshold: 1.5}); !errors.As(err, &cerr) {
		t.Fatalf("threshold above 1 should be rejected")
	}
	if _, err := NewCalibrator(Config{BaselinePeriod: "2011Q1", Threshold: -0.1}); !errors.As(err, &cerr) {
		t.Fatalf("negative threshold should be rejected")
	}
	if _, err := NewCalibrator(Config{}); !errors.As(err, &cerr) {
		t.Fatalf("missing baseline period should be rejected")
	}
	if _, err := NewCalibrator(Config{BaselinePeriod: "x", Period: "month"}); !errors.As(err, &cerr) {
		t.Fatalf("unknown period should be rejected")
	}
	if _, err := NewCalibrator(Config{BaselinePeriod: "x", MinProductivity: 10, MaxProductivity: 5}); !errors.As(err, &cerr) {
		t.Fatalf("inverted bounds should be rejected")
	}
}
