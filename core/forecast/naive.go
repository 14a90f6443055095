package forecast

import "github.com/kilianp07/laborplan/core/model"

// NaivePersistence predicts each entity's most recent observed train value.
// Entities without train history fall back to the global train mean.
type NaivePersistence struct {
	stats  trainStats
	fitted bool
}

// NewNaivePersistence returns an unfitted naive baseline.
func NewNaivePersistence() *NaivePersistence { return &NaivePersistence{} }

// Name identifies the variant in comparisons and metrics.
func (n *NaivePersistence) Name() string { return "naive" }

// Fit records the last train value per entity.
func (n *NaivePersistence) Fit(train []model.FeatureRow) error {
	if len(train) == 0 {
		return &model.ModelFitError{Model: n.Name(), Msg: "empty training set"}
	}
	n.stats = collectTrainStats(train)
	n.fitted = true
	return nil
}

// Predict emits the persisted value for each test row.
func (n *NaivePersistence) Predict(test []model.FeatureRow) ([]model.ForecastRow, error) {
	if !n.fitted {
		return nil, notFitted(n.Name())
	}
	out := make([]model.ForecastRow, len(test))
	for i, r := range test {
		pred := n.stats.globalMean
		if series := n.stats.series[r.EntityID]; len(series) > 0 {
			pred = series[len(series)-1]
		}
		out[i] = model.ForecastRow{EntityID: r.EntityID, Date: r.Date, Actual: r.Demand, Predicted: pred}
	}
	return out, nil
}
