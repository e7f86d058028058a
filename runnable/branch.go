package runnable

import (
	"context"
	"runtime/debug"
	"slices"
)

// Predicate decides whether a branch arm accepts the input. It must not
// have side effects.
type Predicate func(ctx context.Context, input Value) (bool, error)

// Arm pairs a predicate with the stage it routes to.
type Arm struct {
	Predicate Predicate
	Stage     Stage
}

// When builds an Arm.
func When(pred Predicate, s Stage) Arm {
	return Arm{Predicate: pred, Stage: s}
}

// BranchOption configures a Branch.
type BranchOption func(*Branch)

// WithDefault sets the stage run when no predicate matches. Use Passthrough
// to return the input unchanged. A nil stage is rejected by NewBranch.
func WithDefault(s Stage) BranchOption {
	return func(b *Branch) {
		b.fallback = s
		b.fallbackSet = true
	}
}

// Branch routes its input to the first arm whose predicate holds.
type Branch struct {
	name        string
	arms        []Arm
	fallback    Stage
	fallbackSet bool
}

// NewBranch builds a Branch from one or more arms.
func NewBranch(name string, arms []Arm, opts ...BranchOption) (*Branch, error) {
	if len(arms) == 0 {
		return nil, &EmptyCompositionError{Kind: "branch"}
	}
	for i, a := range arms {
		if a.Predicate == nil {
			return nil, &InvalidStageError{Kind: "branch", Reason: "predicate is nil"}
		}
		if err := checkStage("branch", i, a.Stage); err != nil {
			return nil, err
		}
	}
	if name == "" {
		name = "branch"
	}
	b := &Branch{name: name, arms: slices.Clone(arms)}
	for _, opt := range opts {
		opt(b)
	}
	if b.fallbackSet && b.fallback == nil {
		return nil, &InvalidStageError{Kind: "branch", Reason: "default stage is nil"}
	}
	return b, nil
}

// Name returns the branch stage name.
func (b *Branch) Name() string { return b.name }

// HasDefault reports whether a default stage is set.
func (b *Branch) HasDefault() bool { return b.fallback != nil }

// Invoke evaluates the predicates in order and runs the stage of the first
// that holds; later predicates are not evaluated. A predicate error or panic
// fails the whole branch. Without a match the default runs, or the branch
// fails with *NoBranchMatchedError.
func (b *Branch) Invoke(ctx context.Context, input Value) (Value, error) {
	for i, arm := range b.arms {
		matched, err := evaluate(ctx, arm.Predicate, input)
		if err != nil {
			return Value{}, &InvocationError{Stage: b.name, Position: i, Cause: err}
		}
		if !matched {
			continue
		}
		out, err := Invoke(ctx, arm.Stage, input)
		if err != nil {
			return Value{}, &InvocationError{Stage: b.name, Child: arm.Stage.Name(), Position: i, Cause: err}
		}
		return out, nil
	}

	if b.fallback == nil {
		return Value{}, &InvocationError{Stage: b.name, Position: -1, Cause: &NoBranchMatchedError{Stage: b.name}}
	}
	out, err := Invoke(ctx, b.fallback, input)
	if err != nil {
		return Value{}, &InvocationError{Stage: b.name, Child: b.fallback.Name(), Position: -1, Cause: err}
	}
	return out, nil
}

func evaluate(ctx context.Context, pred Predicate, input Value) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return pred(ctx, input)
}
