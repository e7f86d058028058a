// Package demo builds the example pipelines served by the gorunnable CLI
// and HTTP server. Builders only construct stages; nothing runs until a
// caller invokes the result.
//
// Each builder takes the model stage as a parameter. DefaultModel supplies a
// deterministic rule-based stand-in so the pipelines run offline.
package demo
