package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/gorunnable/cache"
	"github.com/kbukum/gorunnable/config"
	"github.com/kbukum/gorunnable/demo"
	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/observability"
	"github.com/kbukum/gorunnable/runnable"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configFile string
	envFile    string
	logLevel   string
}

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg      *AppConfig
	log      *logger.Logger
	catalog  *runnable.Catalog
	metrics  *observability.Metrics
	checkers []observability.HealthChecker
	closers  []func(context.Context) error
}

func loadConfig(flags *rootFlags) (*AppConfig, error) {
	cfg := &AppConfig{}
	opts := []config.LoaderOption{config.WithDefaults(defaultValues())}
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// bootstrap loads configuration and wires logging, telemetry, the cache and
// the pipeline catalog.
func bootstrap(ctx context.Context, flags *rootFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger.Init(&cfg.Logging)
	a := &app{cfg: cfg, log: logger.GetGlobalLogger()}

	if err := a.initTelemetry(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	mws, err := a.middlewares(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	model, err := demo.ModelFromConfig(cfg.Pipeline.Model)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("building model: %w", err)
	}
	a.catalog, err = demo.Catalog(model,
		demo.WithSummaryThreshold(cfg.Pipeline.SummaryThreshold),
		demo.WithParallelOptions(runnable.WithMaxConcurrency(cfg.Pipeline.MaxConcurrency)),
		demo.WithMiddleware(mws...),
	)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("building pipelines: %w", err)
	}

	a.log.Debug("Application bootstrapped", map[string]interface{}{
		"environment": cfg.Environment,
		"pipelines":   a.catalog.Names(),
		"cache":       cfg.Cache.Enabled,
		"telemetry":   cfg.Observability.Enabled,
	})
	return a, nil
}

// Replaced in tests.
var (
	initObservability = observability.Init
	newMetrics        = observability.NewMetrics
)

func (a *app) initTelemetry(ctx context.Context) error {
	shutdown, err := initObservability(ctx, a.cfg.Observability)
	if err != nil {
		return fmt.Errorf("initialising telemetry: %w", err)
	}
	a.closers = append(a.closers, shutdown)
	if !a.cfg.Observability.Enabled {
		return nil
	}
	a.metrics, err = newMetrics(observability.Meter(observability.TracerName))
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	return nil
}

// middlewares returns the pipeline decorators, outermost first.
func (a *app) middlewares(ctx context.Context) ([]runnable.Middleware, error) {
	mws := []runnable.Middleware{runnable.WithLogging(a.log.WithComponent("pipeline"))}
	if a.cfg.Observability.Enabled {
		mws = append(mws, runnable.WithTracing(a.cfg.Name), runnable.WithMetrics(a.metrics))
	}
	if a.cfg.Cache.Enabled {
		store, closeStore, err := cache.Open(ctx, a.cfg.Cache, a.log.WithComponent("cache"))
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return closeStore() })
		if checker, ok := store.(observability.HealthChecker); ok {
			a.checkers = append(a.checkers, checker)
		}
		mws = append(mws, cache.Middleware(store,
			cache.WithTTL(a.cfg.Cache.TTLDuration()),
			cache.WithLogger(a.log.WithComponent("cache")),
		))
	}
	mws = append(mws,
		runnable.WithRetry(a.cfg.Pipeline.Retry, a.log.WithComponent("retry")),
		runnable.WithTimeout(a.cfg.Pipeline.stageTimeout()),
	)
	return mws, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
