// Package server exposes a runnable.Catalog over HTTP.
//
// The gin engine sits behind h2c so the same port serves HTTP/1.1 and
// cleartext HTTP/2. Every request passes through recovery, request-id,
// body-size and request-logging middleware (server/middleware).
//
// Routes:
//
//   - GET  /health: service and dependency health
//   - GET  /version: build information
//   - GET  /v1/pipelines: registered pipelines, sorted by name
//   - POST /v1/pipelines/:name/invoke: body {"input": <json>}, responds
//     {"data": {"pipeline": name, "output": <json>}}
//
// Pipeline failures are mapped onto the errors package by ToAppError; the
// failure path is returned in error.details.path.
package server
