package metrics

// MultiSink fans pipeline events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStage forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordStage(ev StageEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordStage(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun forwards run outcomes to sinks that record them.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RunRecorder); ok {
			if err := rec.RecordRun(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordModelScore forwards accuracy events.
func (m *MultiSink) RecordModelScore(ev ModelScoreEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ModelScoreRecorder); ok {
			if err := rec.RecordModelScore(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordHoursDelta forwards staffing-delta events.
func (m *MultiSink) RecordHoursDelta(ev HoursDeltaEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(HoursDeltaRecorder); ok {
			if err := rec.RecordHoursDelta(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCalibration forwards calibration events.
func (m *MultiSink) RecordCalibration(ev CalibrationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(CalibrationRecorder); ok {
			if err := rec.RecordCalibration(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
