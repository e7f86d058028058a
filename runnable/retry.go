package runnable

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/resilience"
)

// Transient reports whether err may succeed on another attempt with the same
// input. Template, extraction, shape and branch errors are deterministic, as
// are panics, cancellation and invalid compositions.
func Transient(err error) bool {
	var (
		missing  *MissingVariableError
		notFound *KeyNotFoundError
		shape    *ShapeMismatchError
		noMatch  *NoBranchMatchedError
		panicked *PanicError
		empty    *EmptyCompositionError
		dup      *DuplicateBranchNameError
		invalid  *InvalidStageError
	)
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.As(err, &missing), errors.As(err, &notFound), errors.As(err, &shape),
		errors.As(err, &noMatch), errors.As(err, &panicked):
		return false
	case errors.As(err, &empty), errors.As(err, &dup), errors.As(err, &invalid):
		return false
	default:
		return true
	}
}

// WithRetry re-invokes a failing stage according to cfg. Without a RetryIf
// only Transient failures are retried. Each retry is logged at warn level
// when log is non-nil.
func WithRetry(cfg resilience.RetryConfig, log *logger.Logger) Middleware {
	if cfg.RetryIf == nil {
		cfg.RetryIf = Transient
	}
	cfg.ApplyDefaults()
	return func(inner Stage) Stage {
		if cfg.MaxAttempts <= 1 {
			return inner
		}
		return &decorated{inner: inner, invoke: func(ctx context.Context, input Value) (Value, error) {
			attemptCfg := cfg
			if log != nil {
				onRetry := cfg.OnRetry
				attemptCfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
					log.WithContext(ctx).Warn("retrying stage", map[string]interface{}{
						logger.FieldStage: inner.Name(),
						logger.FieldError: err.Error(),
						"attempt":         attempt,
						"backoff_ms":      backoff.Milliseconds(),
					})
					if onRetry != nil {
						onRetry(attempt, err, backoff)
					}
				}
			}
			return resilience.Retry(ctx, attemptCfg, func() (Value, error) {
				return Invoke(ctx, inner, input)
			})
		}}
	}
}
