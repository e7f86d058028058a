package runnable

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Stage is a unit of a pipeline. Invoke maps one input to one output and is
// a function of the input and the stage's fixed configuration only, so a
// Stage may be invoked concurrently. Failures are *InvocationError values
// naming the stage.
type Stage interface {
	Name() string
	Invoke(ctx context.Context, input Value) (Value, error)
}

// Invoke runs s, converting a panic into an InvocationError with a
// *PanicError cause and attributing any other failure to s.
func Invoke(ctx context.Context, s Stage, input Value) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = Value{}
			err = &InvocationError{
				Stage:    s.Name(),
				Position: -1,
				Cause:    &PanicError{Value: r, Stack: debug.Stack()},
			}
		}
	}()

	out, err = s.Invoke(ctx, input)
	if err != nil {
		return Value{}, Fail(s.Name(), err)
	}
	return out, nil
}

// StageFunc is the signature of a function stage.
type StageFunc func(ctx context.Context, input Value) (Value, error)

type funcStage struct {
	name string
	fn   StageFunc
}

// Func adapts fn into a Stage called name.
func Func(name string, fn StageFunc) Stage {
	if name == "" {
		name = "func"
	}
	return &funcStage{name: name, fn: fn}
}

func (f *funcStage) Name() string { return f.name }

func (f *funcStage) Invoke(ctx context.Context, input Value) (Value, error) {
	out, err := f.fn(ctx, input)
	if err != nil {
		return Value{}, Fail(f.name, err)
	}
	return out, nil
}

type passthrough struct {
	name string
}

// Passthrough returns a stage whose output is its input.
func Passthrough() Stage { return passthrough{name: "passthrough"} }

// NamedPassthrough is Passthrough with a caller-chosen name.
func NamedPassthrough(name string) Stage { return passthrough{name: name} }

func (p passthrough) Name() string { return p.name }

func (p passthrough) Invoke(_ context.Context, input Value) (Value, error) {
	return input, nil
}

func checkStage(kind string, index int, s Stage) error {
	if s == nil {
		return &InvalidStageError{Kind: kind, Reason: fmt.Sprintf("stage %d is nil", index)}
	}
	return nil
}
