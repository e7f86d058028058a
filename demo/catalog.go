package demo

import (
	"github.com/kbukum/gorunnable/runnable"
)

// Option configures Catalog.
type Option func(*options)

type options struct {
	threshold   int
	parallel    []runnable.ParallelOption
	middlewares []runnable.Middleware
}

// WithSummaryThreshold sets the TopicSummary word threshold.
func WithSummaryThreshold(n int) Option {
	return func(o *options) { o.threshold = n }
}

// WithParallelOptions configures the ArticleAndTweet fan-out.
func WithParallelOptions(opts ...runnable.ParallelOption) Option {
	return func(o *options) { o.parallel = append(o.parallel, opts...) }
}

// WithMiddleware decorates every registered pipeline.
func WithMiddleware(mws ...runnable.Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, mws...) }
}

// Catalog registers every demo pipeline built on llm.
func Catalog(llm runnable.Stage, opts ...Option) (*runnable.Catalog, error) {
	o := options{threshold: DefaultSummaryThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	type builder struct {
		name, description string
		build             func() (runnable.Stage, error)
	}
	builders := []builder{
		{"rivalry", `Input {"teams", "tournament"}: asks about a rivalry, then where the teams are based.`,
			func() (runnable.Stage, error) { return Rivalry(llm) }},
		{"topic_points", `Input {"topic"}: describes the topic, then returns a JSON five point summary.`,
			func() (runnable.Stage, error) { return TopicPoints(llm) }},
		{"article_and_tweet", `Input {"topic"}: writes a news article and a tweet in parallel.`,
			func() (runnable.Stage, error) { return ArticleAndTweet(llm, o.parallel...) }},
		{"topic_summary", `Input {"topic"}: writes a paragraph and summarizes it when it is long.`,
			func() (runnable.Stage, error) { return TopicSummary(llm, o.threshold) }},
	}

	catalog := runnable.NewCatalog()
	for _, b := range builders {
		stage, err := b.build()
		if err != nil {
			return nil, err
		}
		if err := catalog.Register(b.name, b.description, stage); err != nil {
			return nil, err
		}
	}
	catalog.Decorate(o.middlewares...)
	return catalog, nil
}
