// Package resilience retries transient failures with exponential backoff.
//
//	cfg := resilience.DefaultRetryConfig()
//	out, err := resilience.Retry(ctx, cfg, func() (string, error) {
//	    return client.Call(ctx)
//	})
//
// runnable.WithRetry applies the same policy to a pipeline stage.
package resilience
