// Package build runs one documentation target as an ordered list of stages:
//
//	prepare_output -> autogen_compile -> autogen_introspect -> sphinx_build -> post_build
//
// Stages run strictly in sequence. The first failing stage stops the run and
// nothing is retried. Context cancellation is checked before every stage and
// is also propagated to the running child process.
//
// Every run produces a Report, persisted as build-report.json in the build
// directory, and feeds a metrics.Recorder.
package build
