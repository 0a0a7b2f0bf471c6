// Package cache stores rendered feed pages for a fixed time window.
//
// Entries are never refreshed on write of the underlying data: a post created
// or deleted while a page is cached only becomes visible once the entry
// expires or InvalidateAll is called.
package cache

import (
	"context"
	"fmt"

	"github.com/mdobak/go-xerrors"
)

var ErrInvalidTTL = xerrors.Message("cache ttl must be positive")

type PageCache interface {
	// Get returns the cached content and true when a live entry exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores content until now + TTL.
	Put(ctx context.Context, key string, content []byte) error
	// InvalidateAll drops every entry owned by this cache.
	InvalidateAll(ctx context.Context) error
}

// Key derives the cache key for one page of a feed scope.
func Key(scope string, page int) string {
	return fmt.Sprintf("feed:%s:page:%d", scope, page)
}
