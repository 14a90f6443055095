package metrics

import "testing"

// TestMultiSink ensures events are forwarded to all sinks.

type recordSink struct {
	count int
}

func (r *recordSink) RecordStage(StageEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordModelScore(ModelScoreEvent) error {
	r.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordStage(StageEvent{Stage: "features"}); err != nil {
		t.Fatalf("record stage: %v", err)
	}
	if err := m.RecordModelScore(ModelScoreEvent{Model: "naive"}); err != nil {
		t.Fatalf("record score: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}
}

func TestMultiSinkSkipsUnimplementedRecorders(t *testing.T) {
	m := NewMultiSink(NopSink{})
	if err := m.RecordRun(RunEvent{RunID: "r"}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := m.RecordCalibration(CalibrationEvent{}); err != nil {
		t.Fatalf("record calibration: %v", err)
	}
	if err := m.RecordHoursDelta(HoursDeltaEvent{}); err != nil {
		t.Fatalf("record hours delta: %v", err)
	}
}

func TestFactoryDefaultsToNop(t *testing.T) {
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("no configured sinks should yield NopSink, got %T", s)
	}
}
