package split

import (
	"errors"
	"testing"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

func rowsFor(entities []string, periods int) []model.FeatureRow {
	base := time.Date(2012, 2, 3, 0, 0, 0, 0, time.UTC)
	var rows []model.FeatureRow
	for _, e := range entities {
		for p := 0; p < periods; p++ {
			rows = append(rows, model.FeatureRow{Record: model.Record{
				EntityID: e,
				Date:     base.AddDate(0, 0, 7*p),
				Demand:   float64(p),
			}})
		}
	}
	return rows
}

func TestSplitCutoffInvariant(t *testing.T) {
	rows := rowsFor([]string{"s1", "s2"}, 6)
	for holdout := 1; holdout < 6; holdout++ {
		res, err := Split(rows, holdout)
		if err != nil {
			t.Fatalf("holdout %d: %v", holdout, err)
		}
		for _, r := range res.Train {
			if !r.Date.Before(res.Cutoff) {
				t.Fatalf("train row at %v not before cutoff %v", r.Date, res.Cutoff)
			}
		}
		for _, r := range res.Test {
			if r.Date.Before(res.Cutoff) {
				t.Fatalf("test row at %v before cutoff %v", r.Date, res.Cutoff)
			}
		}
		if len(res.Train)+len(res.Test) != len(rows) {
			t.Fatalf("partition not exhaustive: %d + %d != %d", len(res.Train), len(res.Test), len(rows))
		}
	}
}

func TestSplitHoldoutCount(t *testing.T) {
	rows := rowsFor([]string{"s1"}, 4)
	res, err := Split(rows, 1)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(res.Train) != 3 || len(res.Test) != 1 {
		t.Fatalf("holdout=1 over 4 periods: train %d test %d", len(res.Train), len(res.Test))
	}
}

// Entities missing periods must not shift the cutoff: it is derived from the
// distinct-date set.
func TestSplitSparseEntity(t *testing.T) {
	rows := rowsFor([]string{"s1"}, 6)
	sparse := rowsFor([]string{"s2"}, 6)
	// s2 is missing the middle periods.
	rows = append(rows, sparse[0], sparse[5])

	res, err := Split(rows, 2)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	full, _ := Split(rowsFor([]string{"s1"}, 6), 2)
	if !res.Cutoff.Equal(full.Cutoff) {
		t.Fatalf("sparse entity shifted cutoff: %v vs %v", res.Cutoff, full.Cutoff)
	}
}

func TestSplitErrors(t *testing.T) {
	rows := rowsFor([]string{"s1"}, 3)
	var ierr *model.InsufficientDataError
	if _, err := Split(rows, 3); !errors.As(err, &ierr) {
		t.Fatalf("expected InsufficientDataError when holdout consumes all periods")
	}
	var cerr *model.ConfigError
	if _, err := Split(rows, 0); !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError for non-positive holdout")
	}
}
