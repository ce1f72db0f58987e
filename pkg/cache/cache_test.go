package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/photostore/pkg/cache"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newMemory(t *testing.T, opts ...cache.MemoryOption) (*cache.Memory[string], *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]cache.MemoryOption{cache.WithCleanupInterval(0), cache.WithClock(clk.Now)}, opts...)
	m := cache.NewMemory[string](opts...)
	t.Cleanup(func() { _ = m.Close() })
	return m, clk
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		ttl     time.Duration
		advance time.Duration
		found   bool
	}{
		{"fresh", time.Minute, 30 * time.Second, true},
		{"expired", time.Minute, 61 * time.Second, false},
		{"default ttl applies", 0, 2 * time.Minute, false},
		{"default ttl fresh", 0, 30 * time.Second, true},
		{"negative never expires", -1, 24 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, clk := newMemory(t, cache.WithDefaultTTL(time.Minute))
			require.NoError(t, m.Set(ctx, "k", "v", tt.ttl))
			clk.Advance(tt.advance)

			v, err := m.Get(ctx, "k")
			if tt.found {
				require.NoError(t, err)
				assert.Equal(t, "v", v)
				return
			}
			require.ErrorIs(t, err, cache.ErrNotFound)
			assert.Equal(t, 0, m.Len())
		})
	}
}

func TestMemoryLRU(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newMemory(t, cache.WithMaxEntries(2))

	require.NoError(t, m.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, m.Set(ctx, "b", "2", time.Minute))

	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3", time.Minute))
	assert.Equal(t, 2, m.Len())

	_, err = m.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound, "least recently used entry is evicted")

	v, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestMemoryOverwriteAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newMemory(t)

	require.NoError(t, m.Set(ctx, "k", "old", time.Minute))
	require.NoError(t, m.Set(ctx, "k", "new", time.Minute))
	assert.Equal(t, 1, m.Len())

	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	require.NoError(t, m.Delete(ctx, "k"))
	require.NoError(t, m.Delete(ctx, "missing"))
	_, err = m.Get(ctx, "k")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemoryClose(t *testing.T) {
	t.Parallel()

	m := cache.NewMemory[int](cache.WithCleanupInterval(time.Millisecond))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Set(context.Background(), "k", 1, 0), cache.ErrClosed)
}

func TestMemorySweep(t *testing.T) {
	t.Parallel()

	m := cache.NewMemory[int](cache.WithCleanupInterval(5 * time.Millisecond))
	defer m.Close()

	require.NoError(t, m.Set(context.Background(), "k", 1, time.Millisecond))
	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLoader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("caches loaded values", func(t *testing.T) {
		t.Parallel()

		m, _ := newMemory(t)
		l := cache.NewLoader[string](m)

		var calls atomic.Int32
		load := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			return "value", time.Minute, nil
		}

		for range 3 {
			v, err := l.Get(ctx, "k", load)
			require.NoError(t, err)
			assert.Equal(t, "value", v)
		}
		assert.Equal(t, int32(1), calls.Load())

		require.NoError(t, l.Forget(ctx, "k"))
		_, err := l.Get(ctx, "k", load)
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("does not cache errors", func(t *testing.T) {
		t.Parallel()

		m, _ := newMemory(t)
		l := cache.NewLoader[string](m)
		boom := errors.New("boom")

		_, err := l.Get(ctx, "k", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("collapses concurrent misses", func(t *testing.T) {
		t.Parallel()

		m, _ := newMemory(t)
		l := cache.NewLoader[string](m)

		var calls atomic.Int32
		release := make(chan struct{})
		load := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			<-release
			return "v", time.Minute, nil
		}

		var wg sync.WaitGroup
		for range 10 {
			wg.Go(func() {
				v, err := l.Get(ctx, "k", load)
				assert.NoError(t, err)
				assert.Equal(t, "v", v)
			})
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.LessOrEqual(t, calls.Load(), int32(2))
	})
}
