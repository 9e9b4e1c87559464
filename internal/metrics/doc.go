// Package metrics provides observability hooks for the scheduler.
//
// The Recorder interface is implemented by NoopRecorder (the default) and by
// PrometheusRecorder, which registers counters and a histogram in a caller
// supplied registry. The desk clock exposes no network endpoint; the registry
// is gathered locally and summarised in the logs on shutdown.
package metrics
