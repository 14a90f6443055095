package forecast

import (
	"fmt"
	"sort"

	"github.com/kilianp07/laborplan/core/model"
)

// designSpec fixes the feature-matrix layout at fit time: which lag, rolling
// and covariate columns exist and in which order. Predict reuses the same
// layout so train and test matrices always align.
type designSpec struct {
	lags       []int
	windows    []int
	covariates []string
	names      []string
}

func newDesignSpec(rows []model.FeatureRow) designSpec {
	lagSet := make(map[int]struct{})
	winSet := make(map[int]struct{})
	covSet := make(map[string]struct{})
	for _, r := range rows {
		for k := range r.Lags {
			lagSet[k] = struct{}{}
		}
		for w := range r.RollingMean {
			winSet[w] = struct{}{}
		}
		for name := range r.Covariates {
			covSet[name] = struct{}{}
		}
	}

	sp := designSpec{
		lags:       sortedInts(lagSet),
		windows:    sortedInts(winSet),
		covariates: sortedStrings(covSet),
	}

	sp.names = []string{
		"year", "month", "day", "day_of_week", "quarter", "iso_week", "day_of_year",
		"is_weekend", "month_sin", "month_cos", "dow_sin", "dow_cos",
		"is_holiday", "is_pre_holiday", "is_post_holiday",
		"promo_total", "has_promotion",
	}
	for _, k := range sp.lags {
		sp.names = append(sp.names, fmt.Sprintf("lag_%d", k))
	}
	for _, w := range sp.windows {
		sp.names = append(sp.names, fmt.Sprintf("roll_mean_%d", w))
	}
	for _, w := range sp.windows {
		sp.names = append(sp.names, fmt.Sprintf("roll_std_%d", w))
	}
	for _, c := range sp.covariates {
		sp.names = append(sp.names, "cov_"+c)
	}
	return sp
}

// vector extracts the raw feature values of one row in spec order. Missing
// lag/rolling values stay NaN; the missing policy is applied by the caller.
// Covariates absent from a row are NaN as well.
func (sp designSpec) vector(r model.FeatureRow) []float64 {
	v := []float64{
		float64(r.Year), float64(r.Month), float64(r.Day), float64(r.DayOfWeek),
		float64(r.Quarter), float64(r.ISOWeek), float64(r.DayOfYear),
		boolToFloat(r.IsWeekend), r.MonthSin, r.MonthCos, r.DowSin, r.DowCos,
		boolToFloat(r.IsHoliday), boolToFloat(r.IsPreHoliday), boolToFloat(r.IsPostHoliday),
		r.PromoTotal, boolToFloat(r.HasPromotion),
	}
	for _, k := range sp.lags {
		v = append(v, lookup(r.Lags, k))
	}
	for _, w := range sp.windows {
		v = append(v, lookup(r.RollingMean, w))
	}
	for _, w := range sp.windows {
		v = append(v, lookup(r.RollingStd, w))
	}
	for _, c := range sp.covariates {
		if val, ok := r.Covariates[c]; ok {
			v = append(v, val)
		} else {
			v = append(v, model.Missing)
		}
	}
	return v
}

func lookup(m map[int]float64, k int) float64 {
	if v, ok := m[k]; ok {
		return v
	}
	return model.Missing
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
