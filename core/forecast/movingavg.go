package forecast

import (
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/laborplan/core/model"
)

// MovingAverage predicts the mean of each entity's last Window train
// observations. Entities without train history fall back to the global train
// mean.
type MovingAverage struct {
	window int
	preds  map[string]float64
	global float64
	fitted bool
}

// NewMovingAverage returns a moving-average baseline over the given number of
// trailing train periods.
func NewMovingAverage(window int) (*MovingAverage, error) {
	if window <= 0 {
		return nil, &model.ConfigError{Param: "window", Msg: "window must be positive"}
	}
	return &MovingAverage{window: window}, nil
}

func (m *MovingAverage) Name() string { return "moving_average" }

// Fit precomputes the trailing mean per entity.
func (m *MovingAverage) Fit(train []model.FeatureRow) error {
	if len(train) == 0 {
		return &model.ModelFitError{Model: m.Name(), Msg: "empty training set"}
	}
	stats := collectTrainStats(train)
	m.global = stats.globalMean
	m.preds = make(map[string]float64, len(stats.series))
	for id, series := range stats.series {
		lo := len(series) - m.window
		if lo < 0 {
			lo = 0
		}
		m.preds[id] = stat.Mean(series[lo:], nil)
	}
	m.fitted = true
	return nil
}

// Predict emits the trailing mean for each test row.
func (m *MovingAverage) Predict(test []model.FeatureRow) ([]model.ForecastRow, error) {
	if !m.fitted {
		return nil, notFitted(m.Name())
	}
	out := make([]model.ForecastRow, len(test))
	for i, r := range test {
		pred, ok := m.preds[r.EntityID]
		if !ok {
			pred = m.global
		}
		out[i] = model.ForecastRow{EntityID: r.EntityID, Date: r.Date, Actual: r.Demand, Predicted: pred}
	}
	return out, nil
}
