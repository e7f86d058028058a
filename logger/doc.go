// Package logger provides structured logging backed by zerolog.
//
// Loggers carry a service tag and can be narrowed with WithComponent,
// WithFields and WithContext. WithContext copies the request, run and trace
// ids that the HTTP layer and the stage middleware put into the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "gorunnable").WithComponent("runnable")
//	log.Info("stage finished", logger.Fields("stage", "prompt", "duration_ms", 3))
package logger
