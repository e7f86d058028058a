// Package errors provides the structured error type returned at the edges of
// gorunnable (HTTP responses, configuration validation).
//
// AppError carries a machine-readable code, a message safe to show to
// callers, an HTTP status, a retryable flag and free-form details. Pipeline
// failures from package runnable are translated into AppError values by the
// server package so that every response names the failing stage.
package errors
