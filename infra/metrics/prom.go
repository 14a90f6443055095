package metrics

import (
	coremetrics "github.com/kilianp07/laborplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records pipeline events in Prometheus metrics.
type PromSink struct {
	stages   *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	mae      *prometheus.GaugeVec
	rmse     *prometheus.GaugeVec
	mape     *prometheus.GaugeVec
	flagged  prometheus.Gauge
	deltaAbs prometheus.Gauge
}

// NewPromSink registers pipeline metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	stages := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Wall-clock duration of each pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_runs_total",
		Help: "Total number of pipeline runs",
	}, []string{"status"})
	mae := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "forecast_mae",
		Help: "Mean absolute error on the test partition",
	}, []string{"model"})
	rmse := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "forecast_rmse",
		Help: "Root mean squared error on the test partition",
	}, []string{"model"})
	mape := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "forecast_mape_percent",
		Help: "Mean absolute percentage error over non-zero actuals",
	}, []string{"model"})
	flagged := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "calibration_flagged_periods",
		Help: "Periods whose implied index deviates from the benchmark beyond the threshold",
	})
	deltaAbs := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hours_delta_abs_total",
		Help: "Sum of absolute staffing deltas between forecast and actual hours",
	})

	if err := reg.Register(stages); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			stages = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	for _, g := range []**prometheus.GaugeVec{&mae, &rmse, &mape} {
		if err := reg.Register(*g); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				*g = are.ExistingCollector.(*prometheus.GaugeVec)
			} else {
				return nil, err
			}
		}
	}
	for _, g := range []*prometheus.Gauge{&flagged, &deltaAbs} {
		if err := reg.Register(*g); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				*g = are.ExistingCollector.(prometheus.Gauge)
			} else {
				return nil, err
			}
		}
	}

	return &PromSink{stages: stages, runs: runs, mae: mae, rmse: rmse, mape: mape, flagged: flagged, deltaAbs: deltaAbs}, nil
}

// RecordStage observes the stage duration histogram.
func (s *PromSink) RecordStage(ev coremetrics.StageEvent) error {
	s.stages.WithLabelValues(ev.Stage).Observe(ev.Duration.Seconds())
	return nil
}

// RecordRun increments the run counter with a success/failure status label.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	status := "failure"
	if ev.Succeeded {
		status = "success"
	}
	s.runs.WithLabelValues(status).Inc()
	return nil
}

// RecordModelScore sets the accuracy gauges for one forecaster.
func (s *PromSink) RecordModelScore(ev coremetrics.ModelScoreEvent) error {
	s.mae.WithLabelValues(ev.Model).Set(ev.MAE)
	s.rmse.WithLabelValues(ev.Model).Set(ev.RMSE)
	s.mape.WithLabelValues(ev.Model).Set(ev.MAPE)
	return nil
}

// RecordHoursDelta sets the aggregate absolute staffing delta.
func (s *PromSink) RecordHoursDelta(ev coremetrics.HoursDeltaEvent) error {
	var total float64
	for _, r := range ev.Rows {
		d := r.DeltaHours
		if d < 0 {
			d = -d
		}
		total += d
	}
	s.deltaAbs.Set(total)
	return nil
}

// RecordCalibration sets the flagged-period count.
func (s *PromSink) RecordCalibration(ev coremetrics.CalibrationEvent) error {
	var n int
	for _, p := range ev.Points {
		if p.Flagged {
			n++
		}
	}
	s.flagged.Set(float64(n))
	return nil
}
