package runnable

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MissingVariableError reports a template variable absent from the input.
type MissingVariableError struct {
	Variable string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing template variable %q", e.Variable)
}

// KeyNotFoundError reports a field absent from a record.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", e.Key)
}

// EmptyCompositionError reports a combinator constructed without children.
type EmptyCompositionError struct {
	Kind string
}

func (e *EmptyCompositionError) Error() string {
	return fmt.Sprintf("%s requires at least one stage", e.Kind)
}

// DuplicateBranchNameError reports a parallel branch name used twice.
type DuplicateBranchNameError struct {
	Name string
}

func (e *DuplicateBranchNameError) Error() string {
	return fmt.Sprintf("duplicate branch name %q", e.Name)
}

// NoBranchMatchedError reports a branch combinator whose predicates all
// returned false and which has no default.
type NoBranchMatchedError struct {
	Stage string
}

func (e *NoBranchMatchedError) Error() string {
	return fmt.Sprintf("no arm of %q matched and no default is set", e.Stage)
}

// ShapeMismatchError reports a stage receiving a kind of value it cannot
// process.
type ShapeMismatchError struct {
	Want Kind
	Got  Kind
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("expected %s input, got %s", e.Want, e.Got)
}

// InvalidStageError reports a combinator given a nil stage, a nil predicate
// or an empty branch name.
type InvalidStageError struct {
	Kind   string
	Reason string
}

func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
}

// PanicError carries a value recovered from a panicking stage or predicate.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParallelError aggregates the failures of a parallel invocation. Failures
// are ordered by branch name.
type ParallelError struct {
	Failures []*InvocationError
	Total    int
}

func (e *ParallelError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d of %d branches failed: %s", len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

// Unwrap exposes every branch failure to errors.Is and errors.As.
func (e *ParallelError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Branches returns the names of the failed branches.
func (e *ParallelError) Branches() []string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Branch
	}
	return names
}

// InvocationError locates a failure inside a composed pipeline. Stage is the
// stage reporting it. Combinators add the child's Position (-1 when not
// positional) or parallel Branch name and wrap the child's own
// InvocationError as Cause, so the chain reads from the outermost pipeline
// down to the leaf that failed.
//
// A branch predicate failure has Position set and Child empty.
type InvocationError struct {
	Stage    string
	Child    string
	Position int
	Branch   string
	Cause    error
}

func (e *InvocationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage)
	switch {
	case e.Branch != "":
		fmt.Fprintf(&b, "{%s}", e.Branch)
	case e.Position >= 0:
		fmt.Fprintf(&b, "[%d]", e.Position)
		if e.Child == "" {
			b.WriteString(" predicate")
		}
	case e.Child != "":
		fmt.Fprintf(&b, "(%s)", e.Child)
	}
	b.WriteString(": ")
	if e.Cause != nil {
		b.WriteString(e.Cause.Error())
	} else {
		b.WriteString("failed")
	}
	return b.String()
}

func (e *InvocationError) Unwrap() error { return e.Cause }

// Frame is one hop of an InvocationError path.
type Frame struct {
	Stage    string `json:"stage"`
	Child    string `json:"child,omitempty"`
	Position int    `json:"position"`
	Branch   string `json:"branch,omitempty"`
}

// Path lists the locations from the outermost stage to the innermost one.
// It descends through a parallel failure only when a single branch failed.
func (e *InvocationError) Path() []Frame {
	var path []Frame
	for cur := e; cur != nil; {
		path = append(path, Frame{Stage: cur.Stage, Child: cur.Child, Position: cur.Position, Branch: cur.Branch})
		switch next := cur.Cause.(type) {
		case *InvocationError:
			cur = next
		case *ParallelError:
			if len(next.Failures) != 1 {
				return path
			}
			cur = next.Failures[0]
		default:
			cur = nil
		}
	}
	return path
}

// Fail attributes cause to stage. A cause that is already an
// InvocationError for the same stage is returned as is.
func Fail(stage string, cause error) error {
	if cause == nil {
		return nil
	}
	if ie, ok := cause.(*InvocationError); ok && ie.Stage == stage {
		return cause
	}
	return &InvocationError{Stage: stage, Position: -1, Cause: cause}
}

// ErrorKind classifies err for metrics and logs.
func ErrorKind(err error) string {
	var (
		missing  *MissingVariableError
		notFound *KeyNotFoundError
		shape    *ShapeMismatchError
		noMatch  *NoBranchMatchedError
		panicked *PanicError
		par      *ParallelError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &panicked):
		return "panic"
	case errors.As(err, &par) && len(par.Failures) > 1:
		return "parallel"
	case errors.As(err, &missing):
		return "missing_variable"
	case errors.As(err, &notFound):
		return "key_not_found"
	case errors.As(err, &shape):
		return "shape_mismatch"
	case errors.As(err, &noMatch):
		return "no_branch_matched"
	default:
		return "error"
	}
}
