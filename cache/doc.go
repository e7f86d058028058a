// Package cache memoizes stage outputs.
//
// Wrap decorates a runnable.Stage so that successful outputs are stored
// under a key derived from the stage name and the canonical JSON of the
// input. Failures are never stored. Two stores are provided: an in-process
// MemoryStore backed by ttlcache and a RedisStore backed by go-redis.
//
//	store := cache.NewMemoryStore(cache.WithMaxEntries(1000))
//	defer store.Close()
//	cached := cache.Wrap(pipeline, store, cache.WithTTL(10*time.Minute))
package cache
