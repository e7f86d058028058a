// Package observability wires OpenTelemetry tracing and metrics for
// gorunnable.
//
// Init installs OTLP/HTTP exporters when enabled in Config. Without it the
// global no-op providers stay active, so the stage and HTTP middleware can
// always call StartSpan and the Metrics recorders. CheckHealth folds
// component health reports for the /health endpoint.
package observability
