package server

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/gorunnable/errors"
	"github.com/kbukum/gorunnable/runnable"
)

// ToAppError maps a pipeline failure onto the API error model. The failure
// path, when err carries one, is attached as the "path" detail.
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	var (
		missing  *runnable.MissingVariableError
		notFound *runnable.KeyNotFoundError
		shape    *runnable.ShapeMismatchError
		noMatch  *runnable.NoBranchMatchedError
		empty    *runnable.EmptyCompositionError
		dup      *runnable.DuplicateBranchNameError
		invalid  *runnable.InvalidStageError
		inv      *runnable.InvocationError
	)

	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		appErr = apperrors.Timeout("invoke")
	case errors.Is(err, context.Canceled):
		appErr = apperrors.Canceled("invoke")
	case errors.As(err, &missing):
		appErr = apperrors.MissingVariable(missing.Variable)
	case errors.As(err, &notFound):
		appErr = apperrors.KeyNotFound(notFound.Key)
	case errors.As(err, &shape):
		appErr = apperrors.ShapeMismatch(shape.Want.String(), shape.Got.String())
	case errors.As(err, &noMatch):
		appErr = apperrors.NoBranchMatched(noMatch.Stage)
	case errors.As(err, &empty), errors.As(err, &dup), errors.As(err, &invalid):
		appErr = apperrors.InvalidComposition(err.Error())
	default:
		stage := "pipeline"
		if errors.As(err, &inv) {
			stage = inv.Stage
		}
		appErr = apperrors.StageFailed(stage, err)
	}

	if appErr.Cause == nil {
		appErr.Cause = err
	}
	if errors.As(err, &inv) {
		appErr = appErr.WithDetail("path", inv.Path())
	}
	var pe *runnable.ParallelError
	if errors.As(err, &pe) {
		appErr = appErr.WithDetail("failed_branches", pe.Branches())
	}
	return appErr
}
