package model

import "time"

// ForecastRow pairs the actual and predicted demand for one test-set record.
type ForecastRow struct {
	EntityID  string
	Date      time.Time
	Actual    float64
	Predicted float64
}

// HoursRow is the labour-hours plan for one entity-date, derived from a
// demand value through a productivity ratio plus fixed baseline hours.
type HoursRow struct {
	EntityID      string
	Date          time.Time
	Demand        float64
	VariableHours float64
	BaselineHours float64
	TotalHours    float64
}

// ComparisonRow joins actual and forecast hours on (entity, date) so that
// DeltaHours isolates the forecast error's contribution to staffing risk.
type ComparisonRow struct {
	EntityID      string
	Date          time.Time
	ActualDemand  float64
	Predicted     float64
	HoursActual   float64
	HoursForecast float64
	DeltaHours    float64
}

// IndexPoint compares implied productivity against an external benchmark for
// one period. Both indices are rebased to 100 at the baseline period before
// comparison.
type IndexPoint struct {
	Period         string
	Productivity   float64 // raw implied productivity (demand per hour)
	ImpliedIndex   float64
	BenchmarkIndex float64
	DeviationPct   float64
	Flagged        bool

	// OutOfBounds marks raw productivity outside the configured plausibility
	// band, independent of the benchmark comparison.
	OutOfBounds bool
}

// SensitivityRow summarises total hours for one candidate productivity ratio.
type SensitivityRow struct {
	Ratio       float64
	PctChange   float64 // deviation from the baseline ratio in percent
	MeanHours   float64
	MedianHours float64
	TotalHours  float64
	MinHours    float64
	MaxHours    float64
	Baseline    bool // true for the unperturbed baseline ratio
}
