// Package split partitions feature rows into train and test sets at a
// temporal cutoff. The partition is a function of date only: entity order is
// irrelevant, time order is load-bearing.
package split

import (
	"sort"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

// Split holds out the last holdoutPeriods distinct calendar periods as the
// test set. The cutoff is computed over the set of distinct dates, not row
// counts, so entities with missing periods do not skew it.
//
// Rows dated before the cutoff go to train, rows at or after it to test. The
// two sets are exhaustive and disjoint by construction.
func Split(rows []model.FeatureRow, holdoutPeriods int) (model.SplitResult, error) {
	if holdoutPeriods <= 0 {
		return model.SplitResult{}, &model.ConfigError{Param: "holdout_periods", Msg: "must be positive"}
	}

	dates := distinctDates(rows)
	if holdoutPeriods >= len(dates) {
		return model.SplitResult{}, &model.InsufficientDataError{
			Need: holdoutPeriods + 1,
			Have: len(dates),
			Msg:  "not enough distinct periods for the requested holdout",
		}
	}

	cutoff := dates[len(dates)-holdoutPeriods]
	res := model.SplitResult{Cutoff: cutoff}
	for _, r := range rows {
		if r.Date.Before(cutoff) {
			res.Train = append(res.Train, r)
		} else {
			res.Test = append(res.Test, r)
		}
	}
	return res, nil
}

func distinctDates(rows []model.FeatureRow) []time.Time {
	set := make(map[time.Time]struct{}, len(rows))
	for _, r := range rows {
		set[r.Date] = struct{}{}
	}
	dates := make([]time.Time, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
