// Package metrics records build and stage timings for sphinxbuilder runs.
//
// Components receive a Recorder; NoopRecorder is the default so callers never
// need nil checks. When a metrics textfile is configured the CLI swaps in a
// PrometheusRecorder backed by its own registry and, once the run finishes,
// writes the registry in the text exposition format for node_exporter's
// textfile collector:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	... run build with rec ...
//	err := metrics.WriteTextfile(path, reg)
package metrics
