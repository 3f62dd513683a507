package menu

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/menuqrcode/menubot/internal/menuapi"
	"github.com/menuqrcode/menubot/internal/metrics"
)

// Fetcher is the upstream surface the cache pulls from. *menuapi.Client
// satisfies it.
type Fetcher interface {
	FetchStore(ctx context.Context) (*menuapi.Store, error)
	FetchCategories(ctx context.Context) ([]menuapi.Category, error)
	FetchProducts(ctx context.Context) ([]menuapi.Product, error)
}

// Snapshot is the cached (store, categories, products) triple. All chats
// observe the same snapshot and the same staleness clock.
type Snapshot struct {
	Store      *menuapi.Store
	Categories []menuapi.Category
	Products   []menuapi.Product
	FetchedAt  time.Time
}

// Cache holds the single process-wide menu snapshot with a TTL.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu   sync.Mutex
	snap Snapshot
}

func NewCache(f Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: f,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the current snapshot, refetching when it is stale or was never
// populated. The mutex is held across the fetch so concurrent callers never
// dog-pile the upstream API; latecomers block and observe the fresh result.
//
// A fetch that yields neither a store nor any products leaves the previous
// snapshot untouched, so a transient upstream outage cannot poison the cache.
func (c *Cache) Get(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.snap.FetchedAt.IsZero() && now.Sub(c.snap.FetchedAt) < c.ttl {
		metrics.CacheHits.Inc()
		return c.snap
	}
	metrics.CacheMisses.Inc()

	store, cats, products := c.fetchAll(ctx)
	if store == nil && len(products) == 0 {
		if !c.snap.FetchedAt.IsZero() {
			metrics.CacheStaleServed.Inc()
			logrus.Warn("cache: refetch yielded no data, keeping previous snapshot")
		}
		return c.snap
	}

	if cats == nil {
		cats = []menuapi.Category{}
	}
	if products == nil {
		products = []menuapi.Product{}
	}
	c.snap = Snapshot{Store: store, Categories: cats, Products: products, FetchedAt: now}
	logrus.WithFields(logrus.Fields{
		"categories": len(cats),
		"products":   len(products),
	}).Info("cache: snapshot refreshed")
	return c.snap
}

// Invalidate zeroes the snapshot unconditionally; the next Get refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = Snapshot{}
	logrus.Info("cache: invalidated")
}

// fetchAll issues the three upstream calls independently; partial success is
// fine, each failure is logged and degraded to nil.
func (c *Cache) fetchAll(ctx context.Context) (*menuapi.Store, []menuapi.Category, []menuapi.Product) {
	store, err := c.fetcher.FetchStore(ctx)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("store").Inc()
		logrus.WithError(err).Warn("cache: store fetch failed")
		store = nil
	}

	cats, err := c.fetcher.FetchCategories(ctx)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("categories").Inc()
		logrus.WithError(err).Warn("cache: categories fetch failed")
		cats = nil
	}

	products, err := c.fetcher.FetchProducts(ctx)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("products").Inc()
		logrus.WithError(err).Warn("cache: products fetch failed")
		products = nil
	}

	return store, cats, products
}
