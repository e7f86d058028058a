package runnable

import (
	"context"
	"slices"
)

// Sequence feeds each stage's output to the next stage and returns the last
// output. It stops at the first failure.
type Sequence struct {
	name   string
	stages []Stage
}

// NewSequence builds a Sequence of one or more stages.
func NewSequence(name string, stages ...Stage) (*Sequence, error) {
	if len(stages) == 0 {
		return nil, &EmptyCompositionError{Kind: "sequence"}
	}
	for i, s := range stages {
		if err := checkStage("sequence", i, s); err != nil {
			return nil, err
		}
	}
	if name == "" {
		name = "sequence"
	}
	return &Sequence{name: name, stages: slices.Clone(stages)}, nil
}

// MustSequence is NewSequence for pipelines built from known-good parts.
func MustSequence(name string, stages ...Stage) *Sequence {
	s, err := NewSequence(name, stages...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the sequence name.
func (s *Sequence) Name() string { return s.name }

// Stages returns a copy of the child stages in order.
func (s *Sequence) Stages() []Stage { return slices.Clone(s.stages) }

// Then returns a new Sequence with the same name running s and then more.
func (s *Sequence) Then(more ...Stage) (*Sequence, error) {
	return NewSequence(s.name, append(slices.Clone(s.stages), more...)...)
}

// Invoke runs the stages in order. A failure, or a context cancelled before
// a step starts, is reported with the step's zero-based position and later
// steps are not run.
func (s *Sequence) Invoke(ctx context.Context, input Value) (Value, error) {
	current := input
	for i, stage := range s.stages {
		if err := ctx.Err(); err != nil {
			return Value{}, &InvocationError{Stage: s.name, Child: stage.Name(), Position: i, Cause: err}
		}
		out, err := Invoke(ctx, stage, current)
		if err != nil {
			return Value{}, &InvocationError{Stage: s.name, Child: stage.Name(), Position: i, Cause: err}
		}
		current = out
	}
	return current, nil
}
