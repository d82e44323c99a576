// =============================================================================
// t4bulk - List Reference Cache
// =============================================================================
//
// Memoizes list definitions by list id for the lifetime of one run.
// Concurrent rows share one cache. Failed fetches are not stored, so a
// later row retries the API.
//
// =============================================================================

package elements

import (
	"context"
	"sync"

	"github.com/cmsbulk/t4bulk/internal/t4"
)

// ListFetcher loads a list definition from the CMS.
type ListFetcher interface {
	GetList(ctx context.Context, id int) (*t4.List, error)
}

// ListCache memoizes list definitions for one run. It is safe for
// concurrent use. Two rows missing the same id at the same time may both
// fetch it; the last write wins.
type ListCache struct {
	fetcher ListFetcher

	mu    sync.Mutex
	lists map[int]*t4.List
}

// NewListCache returns an empty cache backed by fetcher.
func NewListCache(fetcher ListFetcher) *ListCache {
	return &ListCache{
		fetcher: fetcher,
		lists:   make(map[int]*t4.List),
	}
}

// GetOrFetch returns the cached list, fetching it on first use.
// Failed fetches are not cached.
func (c *ListCache) GetOrFetch(ctx context.Context, id int) (*t4.List, error) {
	if l, ok := c.get(id); ok {
		return l, nil
	}

	l, err := c.fetcher.GetList(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lists[id] = l
	c.mu.Unlock()
	return l, nil
}

// Len returns the number of cached lists.
func (c *ListCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lists)
}

func (c *ListCache) get(id int) (*t4.List, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lists[id]
	return l, ok
}
