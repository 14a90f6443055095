package forecast

import (
	"sort"

	"github.com/kilianp07/laborplan/core/model"
)

// ModelScore is the evaluated accuracy of one forecaster on the shared test
// partition.
type ModelScore struct {
	Name    string
	Metrics Metrics
}

// EvaluateModels fits every forecaster on the train partition, predicts the
// test partition and ranks the models by MAE. The per-model forecasts are
// returned so the caller can carry the winner forward into the hours plan.
func EvaluateModels(models []Forecaster, res model.SplitResult) ([]ModelScore, map[string][]model.ForecastRow, error) {
	scores := make([]ModelScore, 0, len(models))
	forecasts := make(map[string][]model.ForecastRow, len(models))
	for _, m := range models {
		if err := m.Fit(res.Train); err != nil {
			return nil, nil, err
		}
		rows, err := m.Predict(res.Test)
		if err != nil {
			return nil, nil, err
		}
		forecasts[m.Name()] = rows
		scores = append(scores, ModelScore{Name: m.Name(), Metrics: Evaluate(rows)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Metrics.MAE < scores[j].Metrics.MAE })
	return scores, forecasts, nil
}
