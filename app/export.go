package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilianp07/laborplan/pkg/export"
)

// Export writes every table of the result to the configured output directory.
// An empty directory disables file output.
func (s *Service) Export(res *Result) error {
	dir := s.cfg.Output.Dir
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tables := []struct {
		name  string
		write func(f *os.File) error
		json  any
		skip  bool
	}{
		{name: "forecast", write: func(f *os.File) error { return export.WriteForecastCSV(f, res.Forecasts) }, json: res.Forecasts},
		{name: "scores", write: func(f *os.File) error { return export.WriteScoresCSV(f, res.Scores) }, json: res.Scores},
		{name: "hours_actual", write: func(f *os.File) error { return export.WriteHoursCSV(f, res.HoursActual) }, json: res.HoursActual},
		{name: "hours_forecast", write: func(f *os.File) error { return export.WriteHoursCSV(f, res.HoursForecast) }, json: res.HoursForecast},
		{name: "comparison", write: func(f *os.File) error { return export.WriteComparisonCSV(f, res.Comparison) }, json: res.Comparison},
		{name: "hours_delta_by_entity", write: func(f *os.File) error { return export.WriteGroupDeltaCSV(f, res.EntityDeltas) }, json: res.EntityDeltas},
		{name: "hours_delta_by_period", write: func(f *os.File) error { return export.WriteGroupDeltaCSV(f, res.PeriodDeltas) }, json: res.PeriodDeltas},
		{name: "sensitivity", write: func(f *os.File) error { return export.WriteSensitivityCSV(f, res.Sensitivity) }, json: res.Sensitivity},
		{name: "productivity_index", write: func(f *os.File) error { return export.WriteIndexCSV(f, res.Index) }, json: res.Index, skip: len(res.Index) == 0},
		{name: "feature_importance", write: func(f *os.File) error { return export.WriteImportancesCSV(f, res.Importances) }, json: res.Importances, skip: len(res.Importances) == 0},
	}

	for _, tb := range tables {
		if tb.skip {
			continue
		}
		path := filepath.Join(dir, tb.name+"."+s.cfg.Output.Format)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		var werr error
		if s.cfg.Output.Format == "json" {
			werr = export.WriteJSON(f, tb.json)
		} else {
			werr = tb.write(f)
		}
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("write %s: %w", path, werr)
		}
		if cerr != nil {
			return fmt.Errorf("close %s: %w", path, cerr)
		}
		s.log.Debugf("wrote %s", path)
	}
	return nil
}
