package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/laborplan/config"
	"github.com/kilianp07/laborplan/core/sensitivity"
	"github.com/kilianp07/laborplan/infra/ingest"
	"github.com/kilianp07/laborplan/pkg/export"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the productivity-ratio sensitivity sweep only",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	records, err := ingest.LoadRecords(cfg.Data.RecordsPath)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	analyzer, err := sensitivity.NewAnalyzer(cfg.Sensitivity)
	if err != nil {
		return err
	}
	demand := make([]float64, len(records))
	for i, r := range records {
		demand[i] = r.Demand
	}
	rows, err := analyzer.Sweep(demand, cfg.Hours.Ratio, cfg.Hours.BaselineHours)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return export.WriteSensitivityCSV(cmd.OutOrStdout(), rows)
}
