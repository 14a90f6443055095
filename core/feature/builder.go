// Package feature derives calendar, lag, rolling-window, holiday and
// promotion features from the raw demand history. All lag and rolling values
// for a date are computed from strictly earlier records of the same entity,
// so no feature leaks the value it will later be asked to predict.
package feature

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/laborplan/core/logger"
	"github.com/kilianp07/laborplan/core/model"
	"github.com/kilianp07/laborplan/core/timeseries"
)

// Builder turns records into feature rows according to its configuration.
type Builder struct {
	cfg Config
	log logger.Logger
}

// NewBuilder validates the configuration and returns a Builder. A nil logger
// is allowed.
func NewBuilder(cfg Config, log logger.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Builder{cfg: cfg, log: log}, nil
}

// Build derives feature rows for every record. It fails with a
// ValidationError when the input contains a duplicated (entity, date) key.
// Rows are returned sorted by entity then date.
func (b *Builder) Build(records []model.Record) ([]model.FeatureRow, error) {
	store, err := timeseries.New(records)
	if err != nil {
		return nil, err
	}
	return b.BuildFromStore(store)
}

// BuildFromStore is Build for callers that already hold a validated store.
func (b *Builder) BuildFromStore(store *timeseries.Store) ([]model.FeatureRow, error) {
	rows := make([]model.FeatureRow, 0, store.Len())
	for _, id := range store.Entities() {
		rows = append(rows, b.buildEntity(store.Series(id))...)
	}
	fillCovariates(rows)
	b.log.Debugf("built %d feature rows for %d entities", len(rows), len(store.Entities()))
	return rows, nil
}

// buildEntity derives features for one entity's date-sorted series. Working
// per entity keeps the no-leakage invariant independently testable: nothing
// from another entity, and nothing at or after index i, can influence row i.
func (b *Builder) buildEntity(series []model.Record) []model.FeatureRow {
	holidays := make(map[time.Time]bool, len(series))
	for _, r := range series {
		holidays[r.Date] = r.IsHoliday
	}

	demand := make([]float64, len(series))
	for i, r := range series {
		demand[i] = r.Demand
	}

	offset := time.Duration(b.cfg.HolidayOffsetDays) * 24 * time.Hour
	rows := make([]model.FeatureRow, len(series))
	for i, rec := range series {
		cal := calendarFor(rec.Date)
		row := model.FeatureRow{
			Record:        rec,
			Year:          cal.year,
			Month:         cal.month,
			Day:           cal.day,
			DayOfWeek:     cal.dow,
			Quarter:       cal.quarter,
			ISOWeek:       cal.isoWeek,
			DayOfYear:     cal.doy,
			IsWeekend:     cal.weekend,
			MonthSin:      cal.monthSin,
			MonthCos:      cal.monthCos,
			DowSin:        cal.dowSin,
			DowCos:        cal.dowCos,
			IsPreHoliday:  holidays[rec.Date.Add(offset)],
			IsPostHoliday: holidays[rec.Date.Add(-offset)],
			PromoTotal:    rec.PromotionTotal(),
			Lags:          make(map[int]float64, len(b.cfg.Lags)),
			RollingMean:   make(map[int]float64, len(b.cfg.Windows)),
			RollingStd:    make(map[int]float64, len(b.cfg.Windows)),
		}
		row.HasPromotion = row.PromoTotal > 0

		for _, k := range b.cfg.Lags {
			if i-k >= 0 {
				row.Lags[k] = demand[i-k]
			} else {
				row.Lags[k] = model.Missing
			}
		}

		for _, w := range b.cfg.Windows {
			mean, std := rollingWindow(demand, i, w)
			row.RollingMean[w] = mean
			row.RollingStd[w] = std
		}

		rows[i] = row
	}
	return rows
}

// fillCovariates imputes absent covariate cells. Within an entity's
// date-sorted series a column is forward-filled, then the leading gap is
// backfilled from the first observation; an entity with no observation at all
// for a column gets the mean of every observed value across entities. Lag and
// rolling gaps keep their missing marker: those encode insufficient history,
// while an absent covariate is a reporting gap in an otherwise continuous
// external series. Rows get fresh maps so the caller's records stay untouched.
func fillCovariates(rows []model.FeatureRow) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range rows {
		for name, v := range r.Covariates {
			sums[name] += v
			counts[name]++
		}
	}
	if len(counts) == 0 {
		return
	}

	for i := range rows {
		cov := make(map[string]float64, len(counts))
		for name, v := range rows[i].Covariates {
			cov[name] = v
		}
		rows[i].Covariates = cov
	}

	byEntity := make(map[string][]int)
	for i, r := range rows {
		byEntity[r.EntityID] = append(byEntity[r.EntityID], i)
	}
	for name, n := range counts {
		mean := sums[name] / float64(n)
		for _, idx := range byEntity {
			fillColumn(rows, idx, name, mean)
		}
	}
}

// fillColumn fills one covariate column over one entity's date-sorted row
// indices.
func fillColumn(rows []model.FeatureRow, idx []int, name string, globalMean float64) {
	vals := make([]float64, len(idx))
	for j, i := range idx {
		if v, ok := rows[i].Covariates[name]; ok {
			vals[j] = v
		} else {
			vals[j] = model.Missing
		}
	}
	for j := 1; j < len(vals); j++ {
		if model.IsMissing(vals[j]) {
			vals[j] = vals[j-1]
		}
	}
	for j := len(vals) - 2; j >= 0; j-- {
		if model.IsMissing(vals[j]) {
			vals[j] = vals[j+1]
		}
	}
	for j, i := range idx {
		v := vals[j]
		if model.IsMissing(v) {
			v = globalMean
		}
		rows[i].Covariates[name] = v
	}
}

// rollingWindow aggregates up to w observations ending the period before
// index i. The shift by one period is mandatory: the window must never
// include demand[i] itself. The mean tolerates a partial window (at least one
// prior observation); the sample standard deviation needs two.
func rollingWindow(demand []float64, i, w int) (mean, std float64) {
	lo := i - w
	if lo < 0 {
		lo = 0
	}
	window := demand[lo:i]
	if len(window) == 0 {
		return model.Missing, model.Missing
	}
	mean = stat.Mean(window, nil)
	if len(window) < 2 {
		return mean, model.Missing
	}
	return mean, stat.StdDev(window, nil)
}
