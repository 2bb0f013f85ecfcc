// Package metrics records regeneration run metrics.
//
// Components receive a Recorder and default to NoopRecorder, so callers never
// nil-check. PrometheusRecorder keeps its own registry; after a run the
// collected series can be written to a node-exporter textfile with
// WriteTextfile.
package metrics
