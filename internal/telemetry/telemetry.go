package telemetry

import "time"

// Record is one time-series point: a measurement name, a timestamp and a
// typed value (string, int64 or float64). ParamCount carries the parameter
// count on scan summary records and is zero otherwise.
type Record struct {
	Measurement string
	Time        time.Time
	Value       interface{}
	ParamCount  int
}

// Sink receives records fire-and-forget. Write must not block the caller on
// downstream latency; delivery failures are logged, never surfaced.
type Sink interface {
	Write(record Record)
	Close()
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) Write(Record) {}

func (NopSink) Close() {}
