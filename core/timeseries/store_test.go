package timeseries

import (
	"errors"
	"testing"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

func day(d int) time.Time {
	return time.Date(2011, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsDuplicateKey(t *testing.T) {
	recs := []model.Record{
		{EntityID: "s1", Date: day(1), Demand: 10},
		{EntityID: "s1", Date: day(1), Demand: 11},
	}
	_, err := New(recs)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSeriesSortedByDate(t *testing.T) {
	recs := []model.Record{
		{EntityID: "s1", Date: day(3), Demand: 3},
		{EntityID: "s1", Date: day(1), Demand: 1},
		{EntityID: "s1", Date: day(2), Demand: 2},
	}
	st, err := New(recs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	series := st.Series("s1")
	for i := 1; i < len(series); i++ {
		if !series[i-1].Date.Before(series[i].Date) {
			t.Fatalf("series not sorted at %d", i)
		}
	}
}

func TestDistinctDatesAcrossEntities(t *testing.T) {
	recs := []model.Record{
		{EntityID: "s1", Date: day(1)},
		{EntityID: "s2", Date: day(1)},
		{EntityID: "s2", Date: day(2)},
	}
	st, err := New(recs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dates := st.DistinctDates()
	if len(dates) != 2 {
		t.Fatalf("expected 2 distinct dates, got %d", len(dates))
	}
	if st.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", st.Len())
	}
}

func TestAllOrderedByEntityThenDate(t *testing.T) {
	recs := []model.Record{
		{EntityID: "s2", Date: day(1)},
		{EntityID: "s1", Date: day(2)},
		{EntityID: "s1", Date: day(1)},
	}
	st, _ := New(recs)
	all := st.All()
	if all[0].EntityID != "s1" || !all[0].Date.Equal(day(1)) {
		t.Fatalf("unexpected first record %v", all[0])
	}
	if all[2].EntityID != "s2" {
		t.Fatalf("unexpected last record %v", all[2])
	}
}
