// Package runnable composes pipelines out of stages that share one
// capability: Invoke, mapping an input Value to an output Value.
//
// Three combinators build larger stages from smaller ones:
//
//   - Sequence feeds each output to the next stage and stops at the first
//     failure.
//   - Parallel runs named branches on the same input and returns a record of
//     their outputs, reporting every failed branch together.
//   - Branch routes the input to the first arm whose predicate holds, or to
//     an optional default such as Passthrough.
//
// Combinators are stages, so they nest:
//
//	prompt, _ := transform.NewTemplate("prompt", "Tell me about {teams} in {tournament}")
//	chain := runnable.MustSequence("rivalry", prompt, model, transform.StringParser())
//	out, err := chain.Invoke(ctx, runnable.TextRecord(map[string]string{
//	    "teams": "Mohun Bagan and East Bengal", "tournament": "ISL",
//	}))
//
// Every failure is an *InvocationError. Each combinator it passes through
// wraps it with its own name and the failing position or branch, and Path
// lists those hops. The leaf cause (MissingVariableError, KeyNotFoundError,
// and so on) stays reachable with errors.As.
//
// Middleware (WithLogging, WithMetrics, WithTracing, WithTimeout) decorates
// any stage without changing its name or result.
package runnable
