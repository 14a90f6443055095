// Package hours translates demand values into labour-hours plans. Variable
// hours scale with demand through a productivity ratio (SPLH or IPLH); fixed
// baseline hours cover tasks that run regardless of volume.
package hours

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/laborplan/core/model"
)

// Config holds the conversion parameters for one pipeline run.
type Config struct {
	// Unit declares what Demand measures: "sales" or "items". The ratio is
	// interpreted in that unit (sales-per-labour-hour vs items-per-labour-hour).
	Unit string `json:"unit"`
	// Ratio is the productivity divisor: demand units handled per labour hour.
	Ratio float64 `json:"ratio"`
	// BaselineHours is the fixed per-period labour independent of demand
	// (opening, closing, compliance).
	BaselineHours float64 `json:"baseline_hours"`
	// SalesPerItem, when set, converts items-unit demand into sales before
	// applying a sales-denominated ratio. Zero disables the conversion; any
	// unit change must be this explicit step, never an implicit default.
	SalesPerItem float64 `json:"sales_per_item"`
}

// SetDefaults applies the sales-denominated defaults.
func (c *Config) SetDefaults() {
	if c.Unit == "" {
		c.Unit = string(model.UnitSales)
	}
}

// Validate rejects non-positive ratios and unknown units.
func (c Config) Validate() error {
	if !model.DemandUnit(c.Unit).Valid() {
		return &model.ConfigError{Param: "unit", Msg: "must be \"sales\" or \"items\""}
	}
	if c.Ratio <= 0 {
		return &model.ConfigError{Param: "ratio", Msg: "productivity ratio must be positive"}
	}
	if c.BaselineHours < 0 {
		return &model.ConfigError{Param: "baseline_hours", Msg: "baseline hours cannot be negative"}
	}
	if c.SalesPerItem < 0 {
		return &model.ConfigError{Param: "sales_per_item", Msg: "conversion ratio cannot be negative"}
	}
	return nil
}

// Converter maps demand values to hours rows. It holds no mutable state:
// Convert is a pure function of its inputs and the fixed parameters.
type Converter struct {
	cfg Config
}

// NewConverter validates the configuration and returns a converter.
func NewConverter(cfg Config) (*Converter, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Converter{cfg: cfg}, nil
}

// Convert derives the hours plan for one entity-date.
func (c *Converter) Convert(entityID string, date time.Time, demand float64) model.HoursRow {
	if c.cfg.SalesPerItem > 0 && model.DemandUnit(c.cfg.Unit) == model.UnitItems {
		demand *= c.cfg.SalesPerItem
	}
	variable := demand / c.cfg.Ratio
	return model.HoursRow{
		EntityID:      entityID,
		Date:          date,
		Demand:        demand,
		VariableHours: variable,
		BaselineHours: c.cfg.BaselineHours,
		TotalHours:    variable + c.cfg.BaselineHours,
	}
}

// ConvertSeries converts every forecast row twice, once from actual demand and
// once from predicted demand, with identical parameters so the two plans
// differ only through the forecast error.
func (c *Converter) ConvertSeries(rows []model.ForecastRow) (actual, forecast []model.HoursRow) {
	actual = make([]model.HoursRow, len(rows))
	forecast = make([]model.HoursRow, len(rows))
	for i, r := range rows {
		actual[i] = c.Convert(r.EntityID, r.Date, r.Actual)
		forecast[i] = c.Convert(r.EntityID, r.Date, r.Predicted)
	}
	return actual, forecast
}

// Compare joins the actual and forecast hours plans on (entity, date).
// DeltaHours = forecast − actual: positive means overstaffing risk, negative
// means understaffing risk.
func (c *Converter) Compare(rows []model.ForecastRow) []model.ComparisonRow {
	out := make([]model.ComparisonRow, len(rows))
	for i, r := range rows {
		a := c.Convert(r.EntityID, r.Date, r.Actual)
		f := c.Convert(r.EntityID, r.Date, r.Predicted)
		out[i] = model.ComparisonRow{
			EntityID:      r.EntityID,
			Date:          r.Date,
			ActualDemand:  r.Actual,
			Predicted:     r.Predicted,
			HoursActual:   a.TotalHours,
			HoursForecast: f.TotalHours,
			DeltaHours:    f.TotalHours - a.TotalHours,
		}
	}
	return out
}

// Summary aggregates a comparison into the staffing-risk figures a planner
// reads first.
type Summary struct {
	Rows           int
	TotalActual    float64
	TotalForecast  float64
	TotalDelta     float64
	MeanAbsDelta   float64
	MedianAbsDelta float64
	MaxAbsDelta    float64
}

// Summarize computes the aggregate staffing-risk summary of a comparison.
func Summarize(rows []model.ComparisonRow) Summary {
	s := Summary{Rows: len(rows)}
	if len(rows) == 0 {
		return s
	}
	abs := make([]float64, len(rows))
	for i, r := range rows {
		s.TotalActual += r.HoursActual
		s.TotalForecast += r.HoursForecast
		s.TotalDelta += r.DeltaHours
		d := r.DeltaHours
		if d < 0 {
			d = -d
		}
		abs[i] = d
		if d > s.MaxAbsDelta {
			s.MaxAbsDelta = d
		}
	}
	s.MeanAbsDelta = stat.Mean(abs, nil)
	sort.Float64s(abs)
	s.MedianAbsDelta = stat.Quantile(0.5, stat.Empirical, abs, nil)
	return s
}

// GroupDelta aggregates the comparison rows sharing one grouping key, an
// entity identifier or a period date.
type GroupDelta struct {
	Key           string
	Rows          int
	TotalActual   float64
	TotalForecast float64
	TotalDelta    float64
	MeanAbsDelta  float64
	MaxAbsDelta   float64
}

// SummarizeByEntity aggregates delta hours per entity, sorted by entity id.
// It localises which entities the chosen model staffs worst.
func SummarizeByEntity(rows []model.ComparisonRow) []GroupDelta {
	return groupDeltas(rows, func(r model.ComparisonRow) string { return r.EntityID })
}

// SummarizeByPeriod aggregates delta hours per date, sorted chronologically.
func SummarizeByPeriod(rows []model.ComparisonRow) []GroupDelta {
	return groupDeltas(rows, func(r model.ComparisonRow) string { return r.Date.Format("2006-01-02") })
}

func groupDeltas(rows []model.ComparisonRow, key func(model.ComparisonRow) string) []GroupDelta {
	byKey := make(map[string]*GroupDelta)
	for _, r := range rows {
		k := key(r)
		g, ok := byKey[k]
		if !ok {
			g = &GroupDelta{Key: k}
			byKey[k] = g
		}
		g.Rows++
		g.TotalActual += r.HoursActual
		g.TotalForecast += r.HoursForecast
		g.TotalDelta += r.DeltaHours
		d := math.Abs(r.DeltaHours)
		g.MeanAbsDelta += d
		if d > g.MaxAbsDelta {
			g.MaxAbsDelta = d
		}
	}
	out := make([]GroupDelta, 0, len(byKey))
	for _, g := range byKey {
		g.MeanAbsDelta /= float64(g.Rows)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
