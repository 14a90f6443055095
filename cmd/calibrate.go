package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/laborplan/config"
	"github.com/kilianp07/laborplan/core/calibrate"
	"github.com/kilianp07/laborplan/core/hours"
	"github.com/kilianp07/laborplan/core/model"
	"github.com/kilianp07/laborplan/infra/ingest"
	"github.com/kilianp07/laborplan/pkg/export"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Compare implied productivity against the benchmark index only",
	RunE:  runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Data.BenchmarkPath == "" {
		return &model.ConfigError{Param: "data.benchmark_path", Msg: "required for calibration"}
	}
	records, err := ingest.LoadRecords(cfg.Data.RecordsPath)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	bench, err := ingest.LoadBenchmark(cfg.Data.BenchmarkPath)
	if err != nil {
		return fmt.Errorf("benchmark: %w", err)
	}
	conv, err := hours.NewConverter(cfg.Hours)
	if err != nil {
		return err
	}
	rows := make([]model.HoursRow, len(records))
	for i, r := range records {
		rows[i] = conv.Convert(r.EntityID, r.Date, r.Demand)
	}
	cal, err := calibrate.NewCalibrator(cfg.Calibration)
	if err != nil {
		return err
	}
	points, err := cal.Calibrate(rows, bench)
	if err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}
	return export.WriteIndexCSV(cmd.OutOrStdout(), points)
}
