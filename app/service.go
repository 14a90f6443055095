// Package app wires configuration, pipeline stages and observability sinks
// into a runnable service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/laborplan/config"
	"github.com/kilianp07/laborplan/core/calibrate"
	"github.com/kilianp07/laborplan/core/feature"
	"github.com/kilianp07/laborplan/core/forecast"
	"github.com/kilianp07/laborplan/core/hours"
	coremetrics "github.com/kilianp07/laborplan/core/metrics"
	"github.com/kilianp07/laborplan/core/model"
	"github.com/kilianp07/laborplan/core/sensitivity"
	"github.com/kilianp07/laborplan/core/split"
	"github.com/kilianp07/laborplan/infra/ingest"
	"github.com/kilianp07/laborplan/infra/logger"
	inframetrics "github.com/kilianp07/laborplan/infra/metrics"
	"github.com/kilianp07/laborplan/internal/eventbus"
)

// Service orchestrates one pipeline run from ingestion to the risk analyses.
// The pipeline publishes its events on the bus; the sink consumes them
// through the infra collector, alongside any other subscriber.
type Service struct {
	cfg           *config.Config
	log           logger.Logger
	bus           eventbus.EventBus
	sink          coremetrics.MetricsSink
	collectorDone <-chan struct{}
}

// Result collects every table a run produces.
type Result struct {
	RunID         string
	Scores        []forecast.ModelScore
	BestModel     string
	Forecasts     []model.ForecastRow
	HoursActual   []model.HoursRow
	HoursForecast []model.HoursRow
	Comparison    []model.ComparisonRow
	Summary       hours.Summary
	EntityDeltas  []hours.GroupDelta
	PeriodDeltas  []hours.GroupDelta
	Importances   []forecast.FeatureImportance
	Index         []model.IndexPoint
	Sensitivity   []model.SensitivityRow
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return &Service{
		cfg:  cfg,
		log:  logger.New("service"),
		bus:  eventbus.New(),
		sink: sink,
	}, nil
}

// Bus exposes the event bus so additional subscribers can observe the run.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Run executes the full pipeline once. The context bounds the optional
// Prometheus server; the pipeline itself is synchronous.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	if s.collectorDone == nil {
		s.collectorDone = inframetrics.StartEventCollector(ctx, s.bus, s.sink)
	}
	if s.cfg.Metrics.PrometheusPort != 0 {
		go func() {
			addr := fmt.Sprintf(":%d", s.cfg.Metrics.PrometheusPort)
			if err := inframetrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	runID := uuid.NewString()
	started := time.Now()
	s.log.Infof("run %s starting", runID)

	res, err := s.run(runID)
	s.bus.Publish(coremetrics.RunEvent{
		RunID:     runID,
		Succeeded: err == nil,
		Duration:  time.Since(started),
		Time:      time.Now(),
	})
	if err != nil {
		s.log.Errorf("run %s failed: %v", runID, err)
		return nil, err
	}
	s.log.Infof("run %s finished in %s, best model %s", runID, time.Since(started), res.BestModel)
	return res, nil
}

func (s *Service) run(runID string) (*Result, error) {
	out := &Result{RunID: runID}

	ingestStart := time.Now()
	recs, err := ingest.LoadRecords(s.cfg.Data.RecordsPath)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	s.stage(runID, "ingest", len(recs), time.Since(ingestStart))

	builder, err := feature.NewBuilder(s.cfg.Features, s.log)
	if err != nil {
		return nil, err
	}
	featStart := time.Now()
	rows, err := builder.Build(recs)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	s.stage(runID, "features", len(rows), time.Since(featStart))

	splitStart := time.Now()
	sr, err := split.Split(rows, s.cfg.Split.HoldoutPeriods)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	s.stage(runID, "split", len(sr.Train)+len(sr.Test), time.Since(splitStart))
	s.log.Debugw("split", map[string]any{
		"cutoff": sr.Cutoff.Format("2006-01-02"),
		"train":  len(sr.Train),
		"test":   len(sr.Test),
	})

	registry := forecast.NewRegistry()
	models := make([]forecast.Forecaster, 0, len(s.cfg.Forecast.Models))
	for _, mc := range s.cfg.Forecast.Models {
		m, err := registry.Create(mc)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", mc.Type, err)
		}
		models = append(models, m)
	}

	fitStart := time.Now()
	scores, forecasts, err := forecast.EvaluateModels(models, sr)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	s.stage(runID, "forecast", len(sr.Test), time.Since(fitStart))
	out.Scores = scores
	out.BestModel = scores[0].Name
	out.Forecasts = forecasts[out.BestModel]
	for _, sc := range scores {
		s.bus.Publish(coremetrics.ModelScoreEvent{
			RunID:       runID,
			Model:       sc.Name,
			MAE:         sc.Metrics.MAE,
			RMSE:        sc.Metrics.RMSE,
			MAPE:        sc.Metrics.MAPE,
			Rows:        sc.Metrics.N,
			ZeroActuals: sc.Metrics.ZeroActuals,
			Time:        time.Now(),
		})
		s.log.Infof("model %s: mae=%.3f rmse=%.3f mape=%.2f%%", sc.Name, sc.Metrics.MAE, sc.Metrics.RMSE, sc.Metrics.MAPE)
	}
	for _, m := range models {
		if g, ok := m.(*forecast.Ridge); ok {
			imps, err := g.Importances()
			if err == nil {
				out.Importances = imps
			}
		}
	}

	conv, err := hours.NewConverter(s.cfg.Hours)
	if err != nil {
		return nil, err
	}
	hoursStart := time.Now()
	out.HoursActual, out.HoursForecast = conv.ConvertSeries(out.Forecasts)
	out.Comparison = conv.Compare(out.Forecasts)
	out.Summary = hours.Summarize(out.Comparison)
	out.EntityDeltas = hours.SummarizeByEntity(out.Comparison)
	out.PeriodDeltas = hours.SummarizeByPeriod(out.Comparison)
	s.stage(runID, "hours", len(out.Comparison), time.Since(hoursStart))
	s.bus.Publish(coremetrics.HoursDeltaEvent{RunID: runID, Rows: out.Comparison, Time: time.Now()})

	if s.cfg.Data.BenchmarkPath != "" {
		calStart := time.Now()
		bench, err := ingest.LoadBenchmark(s.cfg.Data.BenchmarkPath)
		if err != nil {
			return nil, fmt.Errorf("benchmark: %w", err)
		}
		cal, err := calibrate.NewCalibrator(s.cfg.Calibration)
		if err != nil {
			return nil, err
		}
		// Calibration reads the full actual history, not just the holdout.
		actualHours := make([]model.HoursRow, len(rows))
		for i, r := range rows {
			actualHours[i] = conv.Convert(r.EntityID, r.Date, r.Demand)
		}
		points, err := cal.Calibrate(actualHours, bench)
		if err != nil {
			return nil, fmt.Errorf("calibrate: %w", err)
		}
		out.Index = points
		s.stage(runID, "calibrate", len(points), time.Since(calStart))
		s.bus.Publish(coremetrics.CalibrationEvent{RunID: runID, Points: points, Time: time.Now()})
	}

	sensStart := time.Now()
	analyzer, err := sensitivity.NewAnalyzer(s.cfg.Sensitivity)
	if err != nil {
		return nil, err
	}
	demand := make([]float64, len(rows))
	for i, r := range rows {
		demand[i] = r.Demand
	}
	sens, err := analyzer.Sweep(demand, s.cfg.Hours.Ratio, s.cfg.Hours.BaselineHours)
	if err != nil {
		return nil, fmt.Errorf("sensitivity: %w", err)
	}
	out.Sensitivity = sens
	s.stage(runID, "sensitivity", len(sens), time.Since(sensStart))

	return out, nil
}

// stage publishes a completed-stage event on the bus.
func (s *Service) stage(runID, name string, rows int, d time.Duration) {
	s.bus.Publish(coremetrics.StageEvent{RunID: runID, Stage: name, Rows: rows, Duration: d, Time: time.Now()})
}

// Close shuts the bus down and waits for the collector to drain the events
// still in flight.
func (s *Service) Close() error {
	s.bus.Close()
	if s.collectorDone != nil {
		<-s.collectorDone
	}
	return nil
}
