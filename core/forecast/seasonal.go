package forecast

import (
	"sort"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

// SeasonalPersistence predicts the value observed one seasonal cycle back in
// the entity's train history: the h-th test period reads the value Period
// periods before the end of train plus h. When the offset falls outside the
// history the entity mean is used, and the global train mean when the entity
// has no history at all.
type SeasonalPersistence struct {
	period int
	stats  trainStats
	fitted bool
}

// NewSeasonalPersistence returns a seasonal baseline with the given cycle
// length in periods (52 for weekly data with annual seasonality).
func NewSeasonalPersistence(period int) (*SeasonalPersistence, error) {
	if period <= 0 {
		return nil, &model.ConfigError{Param: "period", Msg: "seasonal period must be positive"}
	}
	return &SeasonalPersistence{period: period}, nil
}

func (s *SeasonalPersistence) Name() string { return "seasonal" }

// Fit stores the per-entity train series.
func (s *SeasonalPersistence) Fit(train []model.FeatureRow) error {
	if len(train) == 0 {
		return &model.ModelFitError{Model: s.Name(), Msg: "empty training set"}
	}
	s.stats = collectTrainStats(train)
	s.fitted = true
	return nil
}

// Predict looks up the seasonal offset per entity. Test rows are ranked by
// date within each entity to determine how far past the end of train each one
// sits.
func (s *SeasonalPersistence) Predict(test []model.FeatureRow) ([]model.ForecastRow, error) {
	if !s.fitted {
		return nil, notFitted(s.Name())
	}

	horizon := testHorizons(test)
	out := make([]model.ForecastRow, len(test))
	for i, r := range test {
		series := s.stats.series[r.EntityID]
		pred := s.stats.globalMean
		if len(series) > 0 {
			idx := len(series) + horizon[key{r.EntityID, r.Date}] - s.period
			if idx >= 0 && idx < len(series) {
				pred = series[idx]
			} else {
				pred = s.stats.entityMean[r.EntityID]
			}
		}
		out[i] = model.ForecastRow{EntityID: r.EntityID, Date: r.Date, Actual: r.Demand, Predicted: pred}
	}
	return out, nil
}

type key struct {
	entity string
	date   time.Time
}

// testHorizons assigns each test row its 0-based rank among the entity's test
// dates in chronological order.
func testHorizons(test []model.FeatureRow) map[key]int {
	dates := make(map[string][]time.Time)
	for _, r := range test {
		dates[r.EntityID] = append(dates[r.EntityID], r.Date)
	}
	out := make(map[key]int, len(test))
	for id, ds := range dates {
		sort.Slice(ds, func(i, j int) bool { return ds[i].Before(ds[j]) })
		for rank, d := range ds {
			out[key{id, d}] = rank
		}
	}
	return out
}
