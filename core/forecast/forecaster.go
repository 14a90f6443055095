// Package forecast provides the demand forecasters. All variants satisfy one
// capability interface so the caller selects a model by configuration rather
// than by call site: three persistence-style baselines and a trainable ridge
// regressor whose hyperparameters are chosen by rolling-origin
// cross-validation.
package forecast

import (
	"sort"

	"github.com/kilianp07/laborplan/core/model"
)

// Forecaster is the capability every model variant implements. Fit consumes
// the train partition and stores whatever state Predict needs; Predict
// produces one ForecastRow per test row.
type Forecaster interface {
	Name() string
	Fit(train []model.FeatureRow) error
	Predict(test []model.FeatureRow) ([]model.ForecastRow, error)
}

// notFitted is the error returned when Predict is called before Fit.
func notFitted(name string) error {
	return &model.ModelFitError{Model: name, Msg: "predict called before fit"}
}

// trainStats collects the per-entity histories and the global mean every
// baseline falls back to when an entity has no train history.
type trainStats struct {
	series     map[string][]float64
	entityMean map[string]float64
	globalMean float64
}

func collectTrainStats(train []model.FeatureRow) trainStats {
	st := trainStats{
		series:     make(map[string][]float64),
		entityMean: make(map[string]float64),
	}
	byEntity := make(map[string][]model.FeatureRow)
	var sum float64
	for _, r := range train {
		byEntity[r.EntityID] = append(byEntity[r.EntityID], r)
		sum += r.Demand
	}
	for id, rows := range byEntity {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = r.Demand
		}
		st.series[id] = vals
	}
	if len(train) > 0 {
		st.globalMean = sum / float64(len(train))
	}
	for id, vals := range st.series {
		var s float64
		for _, v := range vals {
			s += v
		}
		st.entityMean[id] = s / float64(len(vals))
	}
	return st
}
