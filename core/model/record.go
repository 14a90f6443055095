package model

import (
	"fmt"
	"time"
)

// DemandUnit declares the unit of Record.Demand for a pipeline run. The unit
// is fixed per configuration; the pipeline never converts between units
// implicitly.
type DemandUnit string

const (
	// UnitSales means Demand is a monetary sales figure (SPLH conversion).
	UnitSales DemandUnit = "sales"
	// UnitItems means Demand is a count of items sold (IPLH conversion).
	UnitItems DemandUnit = "items"
)

// Valid reports whether the unit is one of the declared values.
func (u DemandUnit) Valid() bool {
	return u == UnitSales || u == UnitItems
}

// Record is a single observation of demand for one entity on one date.
// Records are created once by the ingestion collaborator and never mutated.
// The unique key is (EntityID, Date).
//
// Demand is expected to be non-negative but may legitimately be negative
// (returns, adjustments); it is preserved as-is.
type Record struct {
	EntityID  string
	Date      time.Time
	Demand    float64
	IsHoliday bool

	// Promotions holds the raw promotional-signal columns. A missing signal
	// means no promotion ran, not missing data.
	Promotions map[string]float64

	// Covariates carries external numeric columns (temperature, fuel price,
	// CPI and the like) forwarded into the regression feature matrix.
	Covariates map[string]float64
}

// Key returns the unique (entity, date) key of the record.
func (r Record) Key() string {
	return fmt.Sprintf("%s|%s", r.EntityID, r.Date.Format("2006-01-02"))
}

// PromotionTotal sums all promotional signals. Absent signals count as zero.
func (r Record) PromotionTotal() float64 {
	var total float64
	for _, v := range r.Promotions {
		total += v
	}
	return total
}
