package runnable

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// NamedStage pairs a parallel branch name with its stage.
type NamedStage struct {
	Name  string
	Stage Stage
}

// Named builds a NamedStage.
func Named(name string, s Stage) NamedStage {
	return NamedStage{Name: name, Stage: s}
}

// ParallelOption configures a Parallel.
type ParallelOption func(*Parallel)

// WithMaxConcurrency caps the number of branches running at once. Zero or
// less runs every branch in its own goroutine; one runs them in order.
func WithMaxConcurrency(n int) ParallelOption {
	return func(p *Parallel) { p.maxConcurrency = n }
}

// Parallel invokes every branch on the same input and returns a record
// mapping each branch name to that branch's output.
type Parallel struct {
	name           string
	branches       []NamedStage
	maxConcurrency int
}

// NewParallel builds a Parallel from uniquely named branches.
func NewParallel(name string, branches []NamedStage, opts ...ParallelOption) (*Parallel, error) {
	if len(branches) == 0 {
		return nil, &EmptyCompositionError{Kind: "parallel"}
	}
	seen := make(map[string]bool, len(branches))
	for i, b := range branches {
		if b.Name == "" {
			return nil, &InvalidStageError{Kind: "parallel", Reason: "branch name is empty"}
		}
		if seen[b.Name] {
			return nil, &DuplicateBranchNameError{Name: b.Name}
		}
		seen[b.Name] = true
		if err := checkStage("parallel", i, b.Stage); err != nil {
			return nil, err
		}
	}
	if name == "" {
		name = "parallel"
	}
	p := &Parallel{name: name, branches: slices.Clone(branches)}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ParallelOf builds a Parallel from a map of branches. Branches are started
// in name order.
func ParallelOf(name string, branches map[string]Stage, opts ...ParallelOption) (*Parallel, error) {
	named := make([]NamedStage, 0, len(branches))
	for n, s := range branches {
		named = append(named, Named(n, s))
	}
	slices.SortFunc(named, func(a, b NamedStage) int { return strings.Compare(a.Name, b.Name) })
	return NewParallel(name, named, opts...)
}

// Name returns the parallel stage name.
func (p *Parallel) Name() string { return p.name }

// BranchNames returns the branch names in declaration order.
func (p *Parallel) BranchNames() []string {
	names := make([]string, len(p.branches))
	for i, b := range p.branches {
		names[i] = b.Name
	}
	return names
}

// Invoke runs the branches concurrently and waits for all of them. Every
// branch failure is collected into a *ParallelError; no partial record is
// returned. When ctx ends first, the outputs are discarded and the context
// error is returned.
func (p *Parallel) Invoke(ctx context.Context, input Value) (Value, error) {
	outputs := make([]Value, len(p.branches))
	errs := make([]error, len(p.branches))

	var g errgroup.Group
	if p.maxConcurrency > 0 {
		g.SetLimit(p.maxConcurrency)
	}
	for i, b := range p.branches {
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			outputs[i], errs[i] = Invoke(ctx, b.Stage, input)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Value{}, &InvocationError{Stage: p.name, Position: -1, Cause: err}
	}

	var failures []*InvocationError
	record := make(map[string]Value, len(p.branches))
	for i, b := range p.branches {
		if errs[i] != nil {
			failures = append(failures, &InvocationError{
				Stage:    p.name,
				Child:    b.Stage.Name(),
				Position: -1,
				Branch:   b.Name,
				Cause:    errs[i],
			})
			continue
		}
		record[b.Name] = outputs[i]
	}

	if len(failures) > 0 {
		slices.SortFunc(failures, func(a, b *InvocationError) int { return strings.Compare(a.Branch, b.Branch) })
		return Value{}, &InvocationError{
			Stage:    p.name,
			Position: -1,
			Cause:    &ParallelError{Failures: failures, Total: len(p.branches)},
		}
	}
	return Value{kind: KindRecord, rec: record}, nil
}
