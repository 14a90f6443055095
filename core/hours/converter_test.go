package hours

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

func day(n int) time.Time {
	return time.Date(2011, 1, n, 0, 0, 0, 0, time.UTC)
}

func mustConverter(t *testing.T, cfg Config) *Converter {
	t.Helper()
	c, err := NewConverter(cfg)
	if err != nil {
		t.Fatalf("new converter: %v", err)
	}
	return c
}

func TestConvert(t *testing.T) {
	c := mustConverter(t, Config{Ratio: 10, BaselineHours: 8})
	row := c.Convert("A", day(1), 130)
	if row.VariableHours != 13 {
		t.Fatalf("variable hours = %v, want 13", row.VariableHours)
	}
	if row.TotalHours != 21 {
		t.Fatalf("total hours = %v, want 21", row.TotalHours)
	}
	if row.BaselineHours != 8 || row.Demand != 130 {
		t.Fatalf("inputs not carried through: %+v", row)
	}
}

func TestConvertIsPure(t *testing.T) {
	c := mustConverter(t, Config{Ratio: 7.3, BaselineHours: 4.5})
	first := c.Convert("A", day(1), 611.2)
	second := c.Convert("A", day(1), 611.2)
	if first != second {
		t.Fatalf("conversion not idempotent: %+v vs %+v", first, second)
	}
}

func TestConvertNegativeDemand(t *testing.T) {
	// Returns and adjustments pass through unclamped.
	c := mustConverter(t, Config{Ratio: 10, BaselineHours: 8})
	row := c.Convert("A", day(1), -20)
	if row.TotalHours != 6 {
		t.Fatalf("total hours = %v, want 6", row.TotalHours)
	}
}

func TestConfigValidation(t *testing.T) {
	var cerr *model.ConfigError
	if _, err := NewConverter(Config{Ratio: 0}); !errors.As(err, &cerr) {
		t.Fatalf("zero ratio should be rejected")
	}
	if _, err := NewConverter(Config{Ratio: -3}); !errors.As(err, &cerr) {
		t.Fatalf("negative ratio should be rejected")
	}
	if _, err := NewConverter(Config{Ratio: 1, BaselineHours: -1}); !errors.As(err, &cerr) {
		t.Fatalf("negative baseline should be rejected")
	}
	if _, err := NewConverter(Config{Ratio: 1, Unit: "pallets"}); !errors.As(err, &cerr) {
		t.Fatalf("unknown unit should be rejected")
	}
}

func TestItemsUnitConversion(t *testing.T) {
	// 50 items at 2 sales-per-item against a sales-denominated ratio of 10.
	c := mustConverter(t, Config{Unit: "items", Ratio: 10, SalesPerItem: 2})
	row := c.Convert("A", day(1), 50)
	if row.VariableHours != 10 {
		t.Fatalf("variable hours = %v, want 10", row.VariableHours)
	}
	if row.Demand != 100 {
		t.Fatalf("converted demand = %v, want 100", row.Demand)
	}
}

func TestCompare(t *testing.T) {
	c := mustConverter(t, Config{Ratio: 10, BaselineHours: 8})
	cmp := c.Compare([]model.ForecastRow{
		{EntityID: "A", Date: day(1), Actual: 130, Predicted: 120},
	})
	if len(cmp) != 1 {
		t.Fatalf("expected one comparison row")
	}
	r := cmp[0]
	if r.HoursActual != 21 || r.HoursForecast != 20 {
		t.Fatalf("hours join wrong: %+v", r)
	}
	if r.DeltaHours != -1 {
		t.Fatalf("delta = %v, want -1 (understaffing)", r.DeltaHours)
	}
}

func TestConvertSeriesSameParameters(t *testing.T) {
	c := mustConverter(t, Config{Ratio: 5, BaselineHours: 2})
	actual, forecast := c.ConvertSeries([]model.ForecastRow{
		{EntityID: "A", Date: day(1), Actual: 100, Predicted: 100},
		{EntityID: "A", Date: day(2), Actual: 50, Predicted: 60},
	})
	if len(actual) != 2 || len(forecast) != 2 {
		t.Fatalf("series length mismatch")
	}
	// Identical demand must yield identical plans on both sides.
	if actual[0] != forecast[0] {
		t.Fatalf("identical demand diverged: %+v vs %+v", actual[0], forecast[0])
	}
	if forecast[1].TotalHours-actual[1].TotalHours != 2 {
		t.Fatalf("forecast error not isolated in delta")
	}
}

func TestSummarize(t *testing.T) {
	rows := []model.ComparisonRow{
		{HoursActual: 20, HoursForecast: 22, DeltaHours: 2},
		{HoursActual: 30, HoursForecast: 26, DeltaHours: -4},
		{HoursActual: 10, HoursForecast: 10, DeltaHours: 0},
	}
	s := Summarize(rows)
	if s.Rows != 3 {
		t.Fatalf("row count = %d", s.Rows)
	}
	if s.TotalActual != 60 || s.TotalForecast != 58 {
		t.Fatalf("totals wrong: %+v", s)
	}
	if s.TotalDelta != -2 {
		t.Fatalf("total delta = %v, want -2", s.TotalDelta)
	}
	if math.Abs(s.MeanAbsDelta-2) > 1e-9 {
		t.Fatalf("mean abs delta = %v, want 2", s.MeanAbsDelta)
	}
	if s.MaxAbsDelta != 4 {
		t.Fatalf("max abs delta = %v, want 4", s.MaxAbsDelta)
	}
	if s.MedianAbsDelta != 2 {
		t.Fatalf("median abs delta = %v, want 2", s.MedianAbsDelta)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Fatalf("empty comparison should summarise to zero: %+v", s)
	}
}

func TestSummarizeByEntity(t *testing.T) {
	rows := []model.ComparisonRow{
		{EntityID: "B", Date: day(1), HoursActual: 10, HoursForecast: 14, DeltaHours: 4},
		{EntityID: "A", Date: day(1), HoursActual: 20, HoursForecast: 22, DeltaHours: 2},
		{EntityID: "A", Date: day(2), HoursActual: 30, HoursForecast: 26, DeltaHours: -4},
	}
	got := SummarizeByEntity(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 entity groups, got %d", len(got))
	}
	a := got[0]
	if a.Key != "A" || a.Rows != 2 {
		t.Fatalf("groups not sorted by entity: %+v", got)
	}
	if a.TotalActual != 50 || a.TotalForecast != 48 || a.TotalDelta != -2 {
		t.Fatalf("entity A totals wrong: %+v", a)
	}
	if math.Abs(a.MeanAbsDelta-3) > 1e-9 || a.MaxAbsDelta != 4 {
		t.Fatalf("entity A abs deltas wrong: %+v", a)
	}
	b := got[1]
	if b.Key != "B" || b.Rows != 1 || b.TotalDelta != 4 {
		t.Fatalf("entity B group wrong: %+v", b)
	}
}

func TestSummarizeByPeriod(t *testing.T) {
	rows := []model.ComparisonRow{
		{EntityID: "A", Date: day(2), DeltaHours: -4, HoursActual: 30, HoursForecast: 26},
		{EntityID: "A", Date: day(1), DeltaHours: 2, HoursActual: 20, HoursForecast: 22},
		{EntityID: "B", Date: day(1), DeltaHours: 4, HoursActual: 10, HoursForecast: 14},
	}
	got := SummarizeByPeriod(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 period groups, got %d", len(got))
	}
	if got[0].Key != "2011-01-01" || got[1].Key != "2011-01-02" {
		t.Fatalf("periods not chronological: %+v", got)
	}
	first := got[0]
	if first.Rows != 2 || first.TotalDelta != 6 || math.Abs(first.MeanAbsDelta-3) > 1e-9 {
		t.Fatalf("period aggregate wrong: %+v", first)
	}
}
