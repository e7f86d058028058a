package runnable

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
)

// countingStage records how often it ran and applies fn to the input.
type countingStage struct {
	name  string
	calls atomic.Int32
	fn    func(Value) (Value, error)
}

func counting(name string, fn func(Value) (Value, error)) *countingStage {
	return &countingStage{name: name, fn: fn}
}

func (c *countingStage) Name() string { return c.name }

func (c *countingStage) Invoke(_ context.Context, in Value) (Value, error) {
	c.calls.Add(1)
	return c.fn(in)
}

func (c *countingStage) Calls() int { return int(c.calls.Load()) }

func appendText(suffix string) Stage {
	return Func("append"+suffix, func(_ context.Context, in Value) (Value, error) {
		s, err := ExpectText(in)
		if err != nil {
			return Value{}, err
		}
		return Text(s + suffix), nil
	})
}

func upper() Stage {
	return Func("upper", func(_ context.Context, in Value) (Value, error) {
		s, err := ExpectText(in)
		if err != nil {
			return Value{}, err
		}
		return Text(strings.ToUpper(s)), nil
	})
}

var errBoom = errors.New("boom")

func failing(name string, err error) Stage {
	return Func(name, func(context.Context, Value) (Value, error) { return Value{}, err })
}

func always(result bool) Predicate {
	return func(context.Context, Value) (bool, error) { return result, nil }
}
