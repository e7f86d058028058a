package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultMaxEntries bounds a MemoryStore built without WithMaxEntries.
const DefaultMaxEntries = 10000

// Store persists encoded outputs by key. Get reports a miss with ok=false
// and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxEntries uint64
}

// WithMaxEntries caps the number of entries; the least recently used entry
// is evicted first. Zero removes the cap.
func WithMaxEntries(n uint64) MemoryOption {
	return func(o *memoryOptions) { o.maxEntries = n }
}

// MemoryStore is an in-process Store backed by ttlcache. A background
// janitor evicts expired entries until Close is called.
type MemoryStore struct {
	items *ttlcache.Cache[string, []byte]
	stop  sync.Once
}

// NewMemoryStore returns an empty MemoryStore and starts its janitor.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	o := memoryOptions{maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(&o)
	}
	items := ttlcache.New[string, []byte](
		ttlcache.WithCapacity[string, []byte](o.maxEntries),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &MemoryStore{items: items}
}

// Get returns a copy of the stored bytes.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := s.items.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false, nil
	}
	return append([]byte(nil), item.Value()...), true, nil
}

// Set stores a copy of data. A ttl of zero never expires.
func (s *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	s.items.Set(key, append([]byte(nil), data...), ttl)
	return nil
}

// Len returns the number of entries not yet evicted.
func (s *MemoryStore) Len() int {
	return s.items.Len()
}

// Close stops the janitor. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stop.Do(s.items.Stop)
	return nil
}
