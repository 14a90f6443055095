package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/laborplan/core/metrics"
	"github.com/kilianp07/laborplan/internal/eventbus"
)

// StartEventCollector subscribes the sink to the event bus and records every
// pipeline event published on it. It stops when the context is canceled or
// the bus is closed; the returned channel is closed once the subscription has
// drained, so callers can wait for in-flight events before exiting.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case coremetrics.StageEvent:
					_ = sink.RecordStage(e)
				case coremetrics.RunEvent:
					if r, ok := sink.(coremetrics.RunRecorder); ok {
						_ = r.RecordRun(e)
					}
				case coremetrics.ModelScoreEvent:
					if r, ok := sink.(coremetrics.ModelScoreRecorder); ok {
						_ = r.RecordModelScore(e)
					}
				case coremetrics.HoursDeltaEvent:
					if r, ok := sink.(coremetrics.HoursDeltaRecorder); ok {
						_ = r.RecordHoursDelta(e)
					}
				case coremetrics.CalibrationEvent:
					if r, ok := sink.(coremetrics.CalibrationRecorder); ok {
						_ = r.RecordCalibration(e)
					}
				}
			}
		}
	}()
	return done
}
