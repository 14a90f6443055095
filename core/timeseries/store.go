// Package timeseries holds the canonical in-memory representation of the
// per-entity demand history consumed by every pipeline stage.
package timeseries

import (
	"sort"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

// Store is an immutable, date-sorted view over demand records. It is built
// once from the ingestion collaborator's output and shared read-only by the
// downstream stages.
type Store struct {
	series   map[string][]model.Record
	entities []string
	dates    []time.Time
}

// New validates and indexes the given records. It fails with a
// ValidationError when a (entity, date) key appears twice. The input slice is
// not retained.
func New(records []model.Record) (*Store, error) {
	seen := make(map[string]struct{}, len(records))
	series := make(map[string][]model.Record)
	dateSet := make(map[time.Time]struct{})
	for _, r := range records {
		key := r.Key()
		if _, dup := seen[key]; dup {
			return nil, &model.ValidationError{Key: key, Msg: "duplicate record key"}
		}
		seen[key] = struct{}{}
		series[r.EntityID] = append(series[r.EntityID], r)
		dateSet[r.Date] = struct{}{}
	}

	entities := make([]string, 0, len(series))
	for id := range series {
		sort.Slice(series[id], func(i, j int) bool {
			return series[id][i].Date.Before(series[id][j].Date)
		})
		entities = append(entities, id)
	}
	sort.Strings(entities)

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return &Store{series: series, entities: entities, dates: dates}, nil
}

// Entities returns the entity identifiers in lexical order.
func (s *Store) Entities() []string {
	out := make([]string, len(s.entities))
	copy(out, s.entities)
	return out
}

// Series returns the date-sorted records of one entity. The returned slice is
// a copy and may be modified freely.
func (s *Store) Series(entityID string) []model.Record {
	src := s.series[entityID]
	out := make([]model.Record, len(src))
	copy(out, src)
	return out
}

// DistinctDates returns the sorted set of distinct dates across all entities.
// Split cutoffs are computed over this set rather than row counts so that
// entities with missing periods do not skew the partition.
func (s *Store) DistinctDates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Len returns the total number of records.
func (s *Store) Len() int {
	n := 0
	for _, recs := range s.series {
		n += len(recs)
	}
	return n
}

// All returns every record sorted by entity then date.
func (s *Store) All() []model.Record {
	out := make([]model.Record, 0, s.Len())
	for _, id := range s.entities {
		out = append(out, s.series[id]...)
	}
	return out
}
