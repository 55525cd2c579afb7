package client

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/utils"
)

// DefaultCacheSize is the number of indexes kept when no size is configured
const DefaultCacheSize = 8

// CacheStats contains cache statistics
type CacheStats struct {
	Entries       int   `json:"entries"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Invalidations int64 `json:"invalidations"`
}

// IndexCache keeps parsed indexes by repository address. Callers own the
// cache and pass it where it is needed. Entries are evicted least recently
// used first, and a stored index is only replaced by one at least as new.
// IndexCache is safe for concurrent use.
type IndexCache struct {
	source  Source
	logger  utils.Logger
	entries *lru.Cache[string, *models.RepositoryIndex]

	fetches singleflight.Group

	mu    sync.Mutex
	stats CacheStats
}

// NewIndexCache creates a cache in front of source. A size of zero or less
// uses DefaultCacheSize.
func NewIndexCache(source Source, size int, logger utils.Logger) (*IndexCache, error) {
	if source == nil {
		return nil, fmt.Errorf("index cache needs a source")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	entries, err := lru.New[string, *models.RepositoryIndex](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create index cache: %w", err)
	}

	return &IndexCache{
		source:  source,
		logger:  logger,
		entries: entries,
	}, nil
}

// Get returns the cached index of address, fetching it on a miss.
// Concurrent misses for one address share a single fetch. A caller whose
// ctx is done stops waiting with ctx.Err(); the shared fetch runs on under
// the context of the caller that started it.
func (c *IndexCache) Get(ctx context.Context, address string) (*models.RepositoryIndex, error) {
	c.mu.Lock()
	if idx, ok := c.entries.Get(address); ok {
		c.stats.Hits++
		c.mu.Unlock()
		c.logger.Debug("Index cache hit: %s", address)
		return idx, nil
	}
	c.mu.Unlock()

	ch := c.fetches.DoChan(address, func() (interface{}, error) {
		c.mu.Lock()
		c.stats.Misses++
		c.mu.Unlock()

		c.logger.Debug("Index cache miss: %s", address)
		idx, err := c.source.Fetch(ctx, address)
		if err != nil {
			return nil, err
		}
		c.Put(address, idx)
		return idx, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.RepositoryIndex), nil
	}
}

// Put stores idx unless the cached index of address is newer. It reports
// whether idx was stored.
func (c *IndexCache) Put(address string, idx *models.RepositoryIndex) bool {
	if idx == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.entries.Peek(address); ok && current.Repo.Timestamp > idx.Repo.Timestamp {
		c.logger.Debug("Keeping newer cached index for %s", address)
		return false
	}
	c.entries.Add(address, idx)
	return true
}

// Invalidate drops the cached index of address
func (c *IndexCache) Invalidate(address string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.entries.Remove(address)
	if removed {
		c.stats.Invalidations++
		c.logger.Debug("Index cache invalidated: %s", address)
	}
	return removed
}

// InvalidateIfOlder drops the cached index of address when its timestamp
// is before timestamp (epoch milliseconds).
func (c *IndexCache) InvalidateIfOlder(address string, timestamp int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.entries.Peek(address)
	if !ok || current.Repo.Timestamp >= timestamp {
		return false
	}
	c.entries.Remove(address)
	c.stats.Invalidations++
	c.logger.Debug("Index cache invalidated stale %s (%d < %d)", address, current.Repo.Timestamp, timestamp)
	return true
}

// Len returns the number of cached indexes
func (c *IndexCache) Len() int {
	return c.entries.Len()
}

// Stats returns cache statistics
func (c *IndexCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Entries = c.entries.Len()
	return stats
}
