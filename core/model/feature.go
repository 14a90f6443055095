package model

import (
	"math"
	"time"
)

// Missing marks a lag or rolling feature that cannot be computed because the
// entity's history is too short. It is NaN, never zero: zero-filling is an
// explicit downstream choice, not a builder default.
var Missing = math.NaN()

// IsMissing reports whether a feature value is the missing marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// FeatureRow is a Record augmented with derived features. Every lag and
// rolling value for date t is computed from records strictly before t for the
// same entity.
type FeatureRow struct {
	Record

	// Calendar components, pure functions of Date.
	Year      int
	Month     int
	Day       int
	DayOfWeek int
	Quarter   int
	ISOWeek   int
	DayOfYear int
	IsWeekend bool

	// Cyclic encodings for smooth seasonality.
	MonthSin float64
	MonthCos float64
	DowSin   float64
	DowCos   float64

	// Holiday lead/lag flags with a fixed lookahead window.
	IsPreHoliday  bool
	IsPostHoliday bool

	// Promotion intensity.
	PromoTotal   float64
	HasPromotion bool

	// Lags[k] = demand k periods back; Missing for the first k periods.
	Lags map[int]float64

	// RollingMean[w] and RollingStd[w] aggregate the window ending the
	// period before this row's date.
	RollingMean map[int]float64
	RollingStd  map[int]float64
}

// SplitResult partitions feature rows at a temporal cutoff. Every train row
// predates the cutoff and every test row is at or after it.
type SplitResult struct {
	Train  []FeatureRow
	Test   []FeatureRow
	Cutoff time.Time
}
