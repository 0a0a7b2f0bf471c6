package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/utils/collectionutils"
)

type entry struct {
	content   []byte
	expiresAt time.Time
}

type MemoryCache struct {
	ttl     time.Duration
	now     func() time.Time
	sweep   time.Duration
	entries *collectionutils.SafeMap[string, entry]

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*MemoryCache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// WithSweepInterval starts a background goroutine that evicts expired entries.
// Callers must Close the cache to stop it.
func WithSweepInterval(d time.Duration) Option {
	return func(c *MemoryCache) {
		c.sweep = d
	}
}

func NewMemoryCache(ttl time.Duration, opts ...Option) (*MemoryCache, error) {
	if ttl <= 0 {
		return nil, xerrors.New(ErrInvalidTTL)
	}

	c := &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: collectionutils.New[string, entry](),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.sweep > 0 {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.janitor()
	}

	return c, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.entries.Delete(key)
		return nil, false, nil
	}
	return e.content, true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, content []byte) error {
	stored := make([]byte, len(content))
	copy(stored, content)

	c.entries.Store(key, entry{
		content:   stored,
		expiresAt: c.now().Add(c.ttl),
	})
	return nil
}

func (c *MemoryCache) InvalidateAll(_ context.Context) error {
	c.entries.Clear()
	return nil
}

func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// Close stops the janitor, if any. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		if c.stop != nil {
			close(c.stop)
			<-c.done
		}
	})
	return nil
}

func (c *MemoryCache) evictExpired() int {
	now := c.now()
	return c.entries.DeleteFunc(func(_ string, e entry) bool {
		return !now.Before(e.expiresAt)
	})
}

func (c *MemoryCache) janitor() {
	defer close(c.done)

	ticker := time.NewTicker(c.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stop:
			return
		}
	}
}
