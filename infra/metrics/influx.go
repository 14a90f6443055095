package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/laborplan/core/logger"
	coremetrics "github.com/kilianp07/laborplan/core/metrics"
	infralogger "github.com/kilianp07/laborplan/infra/logger"
)

// InfluxSink writes pipeline events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordStage writes the stage completion as a point.
func (s *InfluxSink) RecordStage(ev coremetrics.StageEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("pipeline_stage").
		AddTag("run_id", ev.RunID).
		AddTag("stage", ev.Stage).
		AddField("rows", ev.Rows).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRun persists the outcome of a full run.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("pipeline_run").
		AddTag("run_id", ev.RunID).
		AddTag("succeeded", strconv.FormatBool(ev.Succeeded)).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordModelScore writes one forecaster's test accuracy.
func (s *InfluxSink) RecordModelScore(ev coremetrics.ModelScoreEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("forecast_score").
		AddTag("run_id", ev.RunID).
		AddTag("model", ev.Model).
		AddField("mae", round3(ev.MAE)).
		AddField("rmse", round3(ev.RMSE)).
		AddField("mape", round3(ev.MAPE)).
		AddField("rows", ev.Rows).
		AddField("zero_actuals", ev.ZeroActuals).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordHoursDelta writes one point per comparison row.
func (s *InfluxSink) RecordHoursDelta(ev coremetrics.HoursDeltaEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range ev.Rows {
		p := write.NewPointWithMeasurement("hours_delta").
			AddTag("run_id", ev.RunID).
			AddTag("entity_id", r.EntityID).
			AddField("hours_actual", round3(r.HoursActual)).
			AddField("hours_forecast", round3(r.HoursForecast)).
			AddField("delta_hours", round3(r.DeltaHours)).
			SetTime(r.Date)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordCalibration writes one point per calibrated period.
func (s *InfluxSink) RecordCalibration(ev coremetrics.CalibrationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, pt := range ev.Points {
		p := write.NewPointWithMeasurement("productivity_index").
			AddTag("run_id", ev.RunID).
			AddTag("period", pt.Period).
			AddTag("flagged", strconv.FormatBool(pt.Flagged)).
			AddField("implied_index", round3(pt.ImpliedIndex)).
			AddField("benchmark_index", round3(pt.BenchmarkIndex)).
			AddField("deviation_pct", round3(pt.DeviationPct)).
			SetTime(ev.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
