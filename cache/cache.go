package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/runnable"
)

// Option configures Wrap.
type Option func(*cached)

// WithTTL sets how long outputs stay cached. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *cached) { c.ttl = ttl }
}

// WithLogger logs hits, misses and store failures.
func WithLogger(log *logger.Logger) Option {
	return func(c *cached) {
		if log != nil {
			c.log = log
		}
	}
}

type cached struct {
	inner runnable.Stage
	store Store
	ttl   time.Duration
	log   *logger.Logger
}

// Wrap returns a stage that serves repeated inputs from store. Store
// failures degrade to invoking the inner stage.
func Wrap(s runnable.Stage, store Store, opts ...Option) runnable.Stage {
	c := &cached{inner: s, store: store, log: logger.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the cache key for invoking the stage called name on input.
func Key(name string, input runnable.Value) (string, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return name + ":" + hex.EncodeToString(sum[:]), nil
}

func (c *cached) Name() string { return c.inner.Name() }

// Unwrap returns the memoized stage.
func (c *cached) Unwrap() runnable.Stage { return c.inner }

func (c *cached) Invoke(ctx context.Context, input runnable.Value) (runnable.Value, error) {
	log := c.log.WithContext(ctx)
	key, err := Key(c.inner.Name(), input)
	if err != nil {
		log.Warn("cache key failed, invoking uncached", logger.ErrorFields("cache_key", err))
		return runnable.Invoke(ctx, c.inner, input)
	}

	if data, ok, err := c.store.Get(ctx, key); err != nil {
		log.Warn("cache read failed", logger.ErrorFields("cache_get", err))
	} else if ok {
		var out runnable.Value
		if err := json.Unmarshal(data, &out); err == nil {
			log.Debug("cache hit", map[string]interface{}{logger.FieldStage: c.inner.Name()})
			return out, nil
		}
		log.Warn("cached entry is corrupt, recomputing", map[string]interface{}{logger.FieldStage: c.inner.Name()})
	}

	out, err := runnable.Invoke(ctx, c.inner, input)
	if err != nil {
		return runnable.Value{}, err
	}
	log.Debug("cache miss", map[string]interface{}{logger.FieldStage: c.inner.Name()})

	data, err := json.Marshal(out)
	if err != nil {
		return out, nil
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		log.Warn("cache write failed", logger.ErrorFields("cache_set", err))
	}
	return out, nil
}

// Open builds the store described by cfg. The returned closer releases any
// connection and is never nil.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (Store, func() error, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Backend != BackendRedis {
		store := NewMemoryStore(WithMaxEntries(uint64(cfg.MaxEntries)))
		return store, store.Close, nil
	}
	client, err := NewRedisClient(cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return NewRedisStore(client, cfg.Redis.KeyPrefix), client.Close, nil
}

// Middleware adapts Wrap for runnable.Apply and Catalog.Decorate.
func Middleware(store Store, opts ...Option) runnable.Middleware {
	return func(s runnable.Stage) runnable.Stage {
		return Wrap(s, store, opts...)
	}
}
