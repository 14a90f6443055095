package metrics

import (
	"time"

	"github.com/kilianp07/laborplan/core/model"
)

// StageEvent marks the completion of one pipeline stage.
type StageEvent struct {
	RunID    string
	Stage    string
	Rows     int
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records pipeline events for observability purposes.
type MetricsSink interface {
	RecordStage(ev StageEvent) error
}

// RunEvent marks the completion of a full pipeline run.
type RunEvent struct {
	RunID     string
	Succeeded bool
	Duration  time.Duration
	Time      time.Time
}

// RunRecorder records pipeline run outcomes.
type RunRecorder interface {
	RecordRun(ev RunEvent) error
}

// ModelScoreEvent carries the test-partition accuracy of one forecaster.
type ModelScoreEvent struct {
	RunID       string
	Model       string
	MAE         float64
	RMSE        float64
	MAPE        float64
	Rows        int
	ZeroActuals int
	Time        time.Time
}

// ModelScoreRecorder records forecaster accuracy.
type ModelScoreRecorder interface {
	RecordModelScore(ev ModelScoreEvent) error
}

// HoursDeltaEvent carries the joined actual-vs-forecast hours plan.
type HoursDeltaEvent struct {
	RunID string
	Rows  []model.ComparisonRow
	Time  time.Time
}

// HoursDeltaRecorder records per-row staffing deltas.
type HoursDeltaRecorder interface {
	RecordHoursDelta(ev HoursDeltaEvent) error
}

// CalibrationEvent carries the implied-vs-benchmark index series.
type CalibrationEvent struct {
	RunID  string
	Points []model.IndexPoint
	Time   time.Time
}

// CalibrationRecorder records productivity calibration results.
type CalibrationRecorder interface {
	RecordCalibration(ev CalibrationEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordStage(StageEvent) error             { return nil }
func (NopSink) RecordRun(RunEvent) error                 { return nil }
func (NopSink) RecordModelScore(ModelScoreEvent) error   { return nil }
func (NopSink) RecordHoursDelta(HoursDeltaEvent) error   { return nil }
func (NopSink) RecordCalibration(CalibrationEvent) error { return nil }
