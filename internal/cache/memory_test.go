package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T) (*MemoryCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c, err := NewMemoryCache(20*time.Second, WithClock(clock.Now))
	require.NoError(t, err)
	return c, clock
}

func TestNewMemoryCache_RejectsNonPositiveTTL(t *testing.T) {
	_, err := NewMemoryCache(0)
	require.ErrorIs(t, err, ErrInvalidTTL)
}

func TestMemoryCache_ServesWithinTTL(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(t)

	require.NoError(t, c.Put(ctx, Key("index", 1), []byte("page one")))

	clock.Advance(19 * time.Second)
	content, ok, err := c.Get(ctx, Key("index", 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("page one"), content)

	clock.Advance(time.Second)
	_, ok, err = c.Get(ctx, Key("index", 1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_PagesAreIndependent(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Put(ctx, Key("index", 1), []byte("one")))
	require.NoError(t, c.Put(ctx, Key("index", 2), []byte("two")))

	first, ok, _ := c.Get(ctx, Key("index", 1))
	require.True(t, ok)
	second, ok, _ := c.Get(ctx, Key("index", 2))
	require.True(t, ok)
	assert.NotEqual(t, first, second)
}

func TestMemoryCache_InvalidateAll(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Put(ctx, Key("index", 1), []byte("one")))
	require.NoError(t, c.Put(ctx, Key("index", 2), []byte("two")))
	require.NoError(t, c.InvalidateAll(ctx))

	_, ok, err := c.Get(ctx, Key("index", 1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_StoresACopy(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	content := []byte("original")
	require.NoError(t, c.Put(ctx, "k", content))
	content[0] = 'X'

	got, ok, _ := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("original"), got)
}

func TestMemoryCache_JanitorEvictsAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c, err := NewMemoryCache(time.Second, WithClock(clock.Now), WithSweepInterval(5*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, c.Put(context.Background(), "k", []byte("v")))
	clock.Advance(2 * time.Second)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "feed:index:page:3", Key("index", 3))
}
