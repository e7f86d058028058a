package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/observability"
	"github.com/kbukum/gorunnable/runnable"
)

func countingUpper(calls *atomic.Int32) runnable.Stage {
	return runnable.Func("upper", func(_ context.Context, in runnable.Value) (runnable.Value, error) {
		calls.Add(1)
		s, err := runnable.ExpectText(in)
		if err != nil {
			return runnable.Value{}, err
		}
		return runnable.Text(s + "!"), nil
	})
}

func newMemoryStore(t *testing.T, opts ...MemoryOption) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client, err := NewRedisClient(RedisConfig{Enabled: true, Addr: mini.Addr()}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

func TestWrapServesRepeatedInput(t *testing.T) {
	var calls atomic.Int32
	stage := Wrap(countingUpper(&calls), newMemoryStore(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		out, err := stage.Invoke(ctx, runnable.Text("hi"))
		require.NoError(t, err)
		assert.Equal(t, "hi!", out.String())
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "upper", stage.Name())

	_, err := stage.Invoke(ctx, runnable.Text("other"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWrapDoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int32
	store := newMemoryStore(t)
	stage := Wrap(countingUpper(&calls), store)

	for i := 0; i < 2; i++ {
		_, err := stage.Invoke(context.Background(), runnable.Number(1))
		var shape *runnable.ShapeMismatchError
		require.ErrorAs(t, err, &shape)
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Zero(t, store.Len())
}

func TestWrapRecordsRoundTrip(t *testing.T) {
	stage := Wrap(runnable.Func("pair", func(_ context.Context, in runnable.Value) (runnable.Value, error) {
		return runnable.Record(map[string]runnable.Value{
			"in":    in,
			"count": runnable.Number(2),
			"ok":    runnable.Bool(true),
		}), nil
	}), newMemoryStore(t))

	first, err := stage.Invoke(context.Background(), runnable.Text("x"))
	require.NoError(t, err)
	second, err := stage.Invoke(context.Background(), runnable.Text("x"))
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestKeyIgnoresRecordOrder(t *testing.T) {
	a := runnable.TextRecord(map[string]string{"a": "1", "b": "2"})
	b := runnable.Record(map[string]runnable.Value{"b": runnable.Text("2"), "a": runnable.Text("1")})

	ka, err := Key("s", a)
	require.NoError(t, err)
	kb, err := Key("s", b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)

	other, err := Key("t", a)
	require.NoError(t, err)
	assert.NotEqual(t, ka, other)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 50*time.Millisecond))
	require.NoError(t, store.Set(ctx, "forever", []byte("f"), 0))
	data, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), data)

	assert.Eventually(t, func() bool {
		_, ok, _ := store.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)

	_, ok, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreEvictsUnreadEntries(t *testing.T) {
	store := newMemoryStore(t)
	stage := Wrap(runnable.Passthrough(), store, WithTTL(50*time.Millisecond))
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		_, err := stage.Invoke(ctx, runnable.Number(float64(i)))
		require.NoError(t, err)
	}
	assert.Equal(t, 500, store.Len())

	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 10*time.Millisecond,
		"expired entries that are never read again must still be freed")
}

func TestMemoryStoreMaxEntries(t *testing.T) {
	store := newMemoryStore(t, WithMaxEntries(3))
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Set(ctx, k, []byte(k), time.Minute))
	}
	assert.Equal(t, 3, store.Len())

	_, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "oldest entry is evicted")
	_, ok, err = store.Get(ctx, "e")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}

func TestWrapDegradesOnStoreFailure(t *testing.T) {
	var calls atomic.Int32
	stage := Wrap(countingUpper(&calls), brokenStore{}, WithLogger(logger.NewNop()))

	out, err := stage.Invoke(context.Background(), runnable.Text("a"))
	require.NoError(t, err)
	assert.Equal(t, "a!", out.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client, mini := newTestRedis(t)
	store := NewRedisStore(client, "test")
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte(`"v"`), time.Minute))
	assert.True(t, mini.Exists("test:k"))

	data, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"v"`, string(data))

	mini.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWrapWithRedis(t *testing.T) {
	client, _ := newTestRedis(t)
	var calls atomic.Int32
	stage := Wrap(countingUpper(&calls), NewRedisStore(client, "p"), WithTTL(time.Hour))

	for i := 0; i < 2; i++ {
		out, err := stage.Invoke(context.Background(), runnable.Text("go"))
		require.NoError(t, err)
		assert.Equal(t, "go!", out.String())
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestRedisStoreHealth(t *testing.T) {
	client, mini := newTestRedis(t)
	store := NewRedisStore(client, "")

	assert.Equal(t, observability.HealthStatusUp, store.CheckHealth(context.Background()).Status)

	mini.Close()
	h := store.CheckHealth(context.Background())
	assert.Equal(t, observability.HealthStatusDown, h.Status)
	assert.NotEmpty(t, h.Message)
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 10*time.Minute, cfg.TTLDuration())
	assert.NoError(t, cfg.Validate())

	cfg.Enabled = true
	cfg.Backend = "disk"
	assert.Error(t, cfg.Validate())

	cfg.Backend = BackendMemory
	cfg.TTL = "soon"
	assert.Error(t, cfg.Validate())

	cfg.TTL = "1m"
	assert.Equal(t, DefaultMaxEntries, cfg.MaxEntries)
	cfg.MaxEntries = -1
	assert.Error(t, cfg.Validate())

	redisCfg := RedisConfig{Enabled: true, Addr: "localhost:6379", PoolSize: 1, DialTimeout: "x", ReadTimeout: "1s", WriteTimeout: "1s"}
	assert.Error(t, redisCfg.Validate())
}

func TestNewRedisClientDisabled(t *testing.T) {
	_, err := NewRedisClient(RedisConfig{}, nil)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	store, closeFn, err := Open(ctx, Config{Enabled: true}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	assert.NoError(t, closeFn())

	mini := miniredis.RunT(t)
	store, closeFn, err = Open(ctx, Config{Enabled: true, Backend: BackendRedis, Redis: RedisConfig{Addr: mini.Addr()}}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	assert.NoError(t, closeFn())
}

func TestMiddlewareDecoratesCatalog(t *testing.T) {
	var calls atomic.Int32
	catalog := runnable.NewCatalog()
	require.NoError(t, catalog.Register("upper", "", countingUpper(&calls)))
	catalog.Decorate(Middleware(newMemoryStore(t), WithTTL(time.Minute)))

	stage, ok := catalog.Get("upper")
	require.True(t, ok)
	for i := 0; i < 2; i++ {
		_, err := runnable.Invoke(context.Background(), stage, runnable.Text("a"))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}
