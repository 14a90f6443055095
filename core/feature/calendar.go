package feature

import (
	"math"
	"time"
)

// calendar holds the components derived from a single date.
type calendar struct {
	year, month, day, dow, quarter, isoWeek, doy int
	weekend                                      bool
	monthSin, monthCos, dowSin, dowCos           float64
}

// calendarFor computes the calendar features for a date. The cyclic sine and
// cosine encodings let a regressor pick up seasonality without a discontinuity
// between December and January or Sunday and Monday.
func calendarFor(date time.Time) calendar {
	month := int(date.Month())
	dow := int(date.Weekday())
	_, isoWeek := date.ISOWeek()
	return calendar{
		year:     date.Year(),
		month:    month,
		day:      date.Day(),
		dow:      dow,
		quarter:  (month-1)/3 + 1,
		isoWeek:  isoWeek,
		doy:      date.YearDay(),
		weekend:  dow == 0 || dow == 6,
		monthSin: math.Sin(2 * math.Pi * float64(month) / 12),
		monthCos: math.Cos(2 * math.Pi * float64(month) / 12),
		dowSin:   math.Sin(2 * math.Pi * float64(dow) / 7),
		dowCos:   math.Cos(2 * math.Pi * float64(dow) / 7),
	}
}
