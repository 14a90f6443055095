// Package export serialises the pipeline's tabular outputs as CSV or JSON.
// The core stays agnostic to the format; any io.Writer works.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/laborplan/core/forecast"
	"github.com/kilianp07/laborplan/core/hours"
	"github.com/kilianp07/laborplan/core/model"
)

const dateLayout = "2006-01-02"

// WriteJSON writes any of the pipeline output tables to w in JSON format.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}

// WriteForecastCSV writes forecast rows to w in CSV format.
func WriteForecastCSV(w io.Writer, rows []model.ForecastRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"entity_id", "date", "actual", "predicted"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.EntityID,
			r.Date.Format(dateLayout),
			ftoa(r.Actual),
			ftoa(r.Predicted),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHoursCSV writes an hours plan to w in CSV format.
func WriteHoursCSV(w io.Writer, rows []model.HoursRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"entity_id", "date", "demand", "variable_hours", "baseline_hours", "total_hours"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.EntityID,
			r.Date.Format(dateLayout),
			ftoa(r.Demand),
			ftoa(r.VariableHours),
			ftoa(r.BaselineHours),
			ftoa(r.TotalHours),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteComparisonCSV writes the actual-vs-forecast hours join to w.
func WriteComparisonCSV(w io.Writer, rows []model.ComparisonRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"entity_id", "date", "actual_demand", "predicted", "hours_actual", "hours_forecast", "delta_hours"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.EntityID,
			r.Date.Format(dateLayout),
			ftoa(r.ActualDemand),
			ftoa(r.Predicted),
			ftoa(r.HoursActual),
			ftoa(r.HoursForecast),
			ftoa(r.DeltaHours),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGroupDeltaCSV writes a per-entity or per-period delta-hours aggregate
// to w. The key column holds whatever the grouping used, an entity id or a
// period date.
func WriteGroupDeltaCSV(w io.Writer, groups []hours.GroupDelta) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"key", "rows", "total_actual", "total_forecast", "total_delta", "mean_abs_delta", "max_abs_delta"}); err != nil {
		return err
	}
	for _, g := range groups {
		rec := []string{
			g.Key,
			strconv.Itoa(g.Rows),
			ftoa(g.TotalActual),
			ftoa(g.TotalForecast),
			ftoa(g.TotalDelta),
			ftoa(g.MeanAbsDelta),
			ftoa(g.MaxAbsDelta),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIndexCSV writes the productivity calibration series to w.
func WriteIndexCSV(w io.Writer, points []model.IndexPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "productivity", "implied_index", "benchmark_index", "deviation_pct", "flagged", "out_of_bounds"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			p.Period,
			ftoa(p.Productivity),
			ftoa(p.ImpliedIndex),
			ftoa(p.BenchmarkIndex),
			ftoa(p.DeviationPct),
			strconv.FormatBool(p.Flagged),
			strconv.FormatBool(p.OutOfBounds),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSensitivityCSV writes the ratio sweep to w.
func WriteSensitivityCSV(w io.Writer, rows []model.SensitivityRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ratio", "pct_change", "mean_hours", "median_hours", "total_hours", "min_hours", "max_hours", "baseline"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			ftoa(r.Ratio),
			ftoa(r.PctChange),
			ftoa(r.MeanHours),
			ftoa(r.MedianHours),
			ftoa(r.TotalHours),
			ftoa(r.MinHours),
			ftoa(r.MaxHours),
			strconv.FormatBool(r.Baseline),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteScoresCSV writes the model comparison table to w.
func WriteScoresCSV(w io.Writer, scores []forecast.ModelScore) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"model", "mae", "rmse", "mape", "rows", "zero_actuals"}); err != nil {
		return err
	}
	for _, s := range scores {
		rec := []string{
			s.Name,
			ftoa(s.Metrics.MAE),
			ftoa(s.Metrics.RMSE),
			ftoa(s.Metrics.MAPE),
			strconv.Itoa(s.Metrics.N),
			strconv.Itoa(s.Metrics.ZeroActuals),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteImportancesCSV writes the regressor feature ranking to w.
func WriteImportancesCSV(w io.Writer, imps []forecast.FeatureImportance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"feature", "weight"}); err != nil {
		return err
	}
	for _, im := range imps {
		if err := cw.Write([]string{im.Feature, ftoa(im.Weight)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
