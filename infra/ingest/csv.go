// Package ingest loads typed records from CSV files. It is the ingestion
// collaborator the pipeline trusts: dates are parsed, numeric columns are
// coerced and duplicate keys are rejected here, before the core ever sees the
// data.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

// DateLayout is the expected date format in record files.
const DateLayout = "2006-01-02"

// Required record columns; any "promo_"-prefixed column becomes a promotional
// signal and every other extra numeric column becomes a covariate.
var requiredColumns = []string{"entity_id", "date", "demand"}

// LoadRecords reads a record CSV from path.
func LoadRecords(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()
	return ReadRecords(f)
}

// ReadRecords parses records from r. The first row must be a header holding
// entity_id, date and demand; is_holiday, promo_* and covariate columns are
// optional. Duplicate (entity_id, date) keys fail with ValidationError.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, &model.ValidationError{Key: name, Msg: "required column missing from header"}
		}
	}

	var out []model.Record
	seen := make(map[string]struct{})
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		rec, err := parseRecord(header, col, row, line)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[rec.Key()]; dup {
			return nil, &model.ValidationError{Key: rec.Key(), Msg: "duplicate (entity_id, date) key"}
		}
		seen[rec.Key()] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

func parseRecord(header []string, col map[string]int, row []string, line int) (model.Record, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(row[col["date"]]))
	if err != nil {
		return model.Record{}, &model.ValidationError{
			Key: fmt.Sprintf("line %d", line),
			Msg: fmt.Sprintf("invalid date %q, want %s", row[col["date"]], DateLayout),
		}
	}
	demand, err := strconv.ParseFloat(strings.TrimSpace(row[col["demand"]]), 64)
	if err != nil {
		return model.Record{}, &model.ValidationError{
			Key: fmt.Sprintf("line %d", line),
			Msg: fmt.Sprintf("invalid demand %q", row[col["demand"]]),
		}
	}
	rec := model.Record{
		EntityID: strings.TrimSpace(row[col["entity_id"]]),
		Date:     date,
		Demand:   demand,
	}
	if rec.EntityID == "" {
		return model.Record{}, &model.ValidationError{Key: fmt.Sprintf("line %d", line), Msg: "empty entity_id"}
	}
	if i, ok := col["is_holiday"]; ok {
		rec.IsHoliday = parseBool(row[i])
	}

	for j, name := range header {
		name = strings.TrimSpace(strings.ToLower(name))
		switch name {
		case "entity_id", "date", "demand", "is_holiday":
			continue
		}
		raw := strings.TrimSpace(row[j])
		if raw == "" {
			// Empty promo cell means no promotion ran; empty covariate cell
			// means the value is genuinely missing and stays absent.
			if strings.HasPrefix(name, "promo_") {
				addPromo(&rec, strings.TrimPrefix(name, "promo_"), 0)
			}
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Record{}, &model.ValidationError{
				Key: fmt.Sprintf("line %d", line),
				Msg: fmt.Sprintf("invalid numeric value %q in column %q", raw, name),
			}
		}
		if strings.HasPrefix(name, "promo_") {
			addPromo(&rec, strings.TrimPrefix(name, "promo_"), v)
		} else {
			if rec.Covariates == nil {
				rec.Covariates = make(map[string]float64)
			}
			rec.Covariates[name] = v
		}
	}
	return rec, nil
}

func addPromo(rec *model.Record, name string, v float64) {
	if rec.Promotions == nil {
		rec.Promotions = make(map[string]float64)
	}
	rec.Promotions[name] = v
}

func parseBool(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "1", "true", "t", "yes":
		return true
	}
	return false
}

// LoadBenchmark reads a benchmark index CSV from path.
func LoadBenchmark(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open benchmark: %w", err)
	}
	defer f.Close()
	return ReadBenchmark(f)
}

// ReadBenchmark parses (period, value) pairs from r. Period keys are opaque
// strings like "2011" or "2011Q3"; duplicates fail with ValidationError.
func ReadBenchmark(r io.Reader) (map[string]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	pi, ok := col["period"]
	vi, vok := col["value"]
	if !ok || !vok {
		return nil, &model.ValidationError{Key: "period,value", Msg: "benchmark header must hold period and value columns"}
	}

	out := make(map[string]float64)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		period := strings.TrimSpace(row[pi])
		if period == "" {
			return nil, &model.ValidationError{Key: fmt.Sprintf("line %d", line), Msg: "empty period"}
		}
		if _, dup := out[period]; dup {
			return nil, &model.ValidationError{Key: period, Msg: "duplicate benchmark period"}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[vi]), 64)
		if err != nil {
			return nil, &model.ValidationError{Key: period, Msg: fmt.Sprintf("invalid benchmark value %q", row[vi])}
		}
		out[period] = v
	}
	return out, nil
}
