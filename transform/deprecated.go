package transform

import (
	"context"

	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/runnable"
)

// Format renders t with vars.
//
// Deprecated: use t.Invoke with a record input.
func Format(ctx context.Context, t *Template, vars map[string]string) (string, error) {
	logger.WithComponent("transform").Warn("Format is deprecated, use Invoke instead", logger.Fields(
		logger.FieldStage, t.Name(),
	))
	out, err := t.Invoke(ctx, runnable.TextRecord(vars))
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Predict runs r on prompt and returns the bare response text.
//
// Deprecated: use r.Invoke followed by StringParser.
func Predict(ctx context.Context, r *Rules, prompt string) (string, error) {
	logger.WithComponent("transform").Warn("Predict is deprecated, use Invoke instead", logger.Fields(
		logger.FieldStage, r.Name(),
	))
	out, err := r.Invoke(ctx, runnable.Text(prompt))
	if err != nil {
		return "", err
	}
	if resp, ok := out.Field(ResponseKey); ok {
		return resp.String(), nil
	}
	return out.String(), nil
}
