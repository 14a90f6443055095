package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/laborplan/app"
	"github.com/kilianp07/laborplan/config"
	"github.com/kilianp07/laborplan/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "laborplan",
	Short: "Demand forecasting and labour-hours planning pipeline",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	if err := svc.Export(res); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: best model %s\n", res.RunID, res.BestModel)
	for _, s := range res.Scores {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-16s mae=%.3f rmse=%.3f mape=%.2f%%\n", s.Name, s.Metrics.MAE, s.Metrics.RMSE, s.Metrics.MAPE)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "staffing delta: total=%.1fh mean_abs=%.2fh max_abs=%.2fh\n",
		res.Summary.TotalDelta, res.Summary.MeanAbsDelta, res.Summary.MaxAbsDelta)
	return nil
}
