package runnable

import (
	"context"
	"time"

	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/observability"
)

// Middleware decorates a Stage. The decorated stage keeps the inner name.
type Middleware func(Stage) Stage

// Chain composes middlewares; the first is outermost.
//
// Chain(a, b, c)(s) is equivalent to a(b(c(s))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Stage) Stage {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Apply decorates s with middlewares, the first outermost.
func Apply(s Stage, middlewares ...Middleware) Stage {
	return Chain(middlewares...)(s)
}

type decorated struct {
	inner  Stage
	invoke func(ctx context.Context, input Value) (Value, error)
}

func (d *decorated) Name() string { return d.inner.Name() }

func (d *decorated) Invoke(ctx context.Context, input Value) (Value, error) {
	return d.invoke(ctx, input)
}

// Unwrap returns the decorated stage.
func (d *decorated) Unwrap() Stage { return d.inner }

// WithLogging logs every invocation with its duration: failures at error
// level, successes at debug level.
func WithLogging(log *logger.Logger) Middleware {
	return func(inner Stage) Stage {
		return &decorated{inner: inner, invoke: func(ctx context.Context, input Value) (Value, error) {
			start := time.Now()
			out, err := Invoke(ctx, inner, input)

			fields := logger.DurationFields("invoke", time.Since(start))
			fields[logger.FieldStage] = inner.Name()
			l := log.WithContext(ctx)
			if err != nil {
				fields[logger.FieldError] = err.Error()
				fields["error_kind"] = ErrorKind(err)
				l.Error("stage invoke failed", fields)
			} else {
				fields["output_kind"] = out.Kind().String()
				l.Debug("stage invoke ok", fields)
			}
			return out, err
		}}
	}
}

// WithMetrics records invocation count, latency and failures on m.
func WithMetrics(m *observability.Metrics) Middleware {
	return func(inner Stage) Stage {
		return &decorated{inner: inner, invoke: func(ctx context.Context, input Value) (Value, error) {
			start := time.Now()
			out, err := Invoke(ctx, inner, input)

			status := observability.StatusOK
			if err != nil {
				kind := ErrorKind(err)
				status = observability.StatusError
				if kind == "timeout" {
					status = observability.StatusTimeout
				}
				m.RecordStageError(ctx, inner.Name(), kind)
			}
			m.RecordInvocation(ctx, inner.Name(), status, time.Since(start))
			return out, err
		}}
	}
}

// WithTracing wraps every invocation in a span named "{service}.{stage}".
func WithTracing(service string) Middleware {
	return func(inner Stage) Stage {
		return &decorated{inner: inner, invoke: func(ctx context.Context, input Value) (Value, error) {
			ctx, span := observability.StartSpan(ctx, service+"."+inner.Name())
			defer span.End()

			observability.SetSpanAttribute(ctx, observability.AttrStage, inner.Name())
			observability.SetSpanAttribute(ctx, "input.kind", input.Kind().String())
			if id := logger.RequestIDFromContext(ctx); id != "" {
				observability.SetSpanAttribute(ctx, observability.AttrRequestID, id)
			}

			out, err := Invoke(ctx, inner, input)
			if err != nil {
				observability.SetSpanError(ctx, err)
				observability.SetSpanAttribute(ctx, observability.AttrStatus, ErrorKind(err))
			}
			return out, err
		}}
	}
}

// WithTimeout gives every invocation a deadline of d. The stage is expected
// to honour ctx; the middleware does not abandon a running stage.
func WithTimeout(d time.Duration) Middleware {
	return func(inner Stage) Stage {
		if d <= 0 {
			return inner
		}
		return &decorated{inner: inner, invoke: func(ctx context.Context, input Value) (Value, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return Invoke(ctx, inner, input)
		}}
	}
}
