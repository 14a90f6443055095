package metrics

// Package metrics defines interfaces and implementations for collecting
// pipeline observability events. Sinks like PromSink and InfluxSink record
// stage durations, forecaster accuracy and staffing deltas and can be
// combined with NewMultiSink. The factory helpers return a MultiSink
// automatically when multiple sinks are configured.
