package menu

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuqrcode/menubot/internal/menuapi"
	"github.com/menuqrcode/menubot/internal/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

type fakeFetcher struct {
	mu       sync.Mutex
	store    *menuapi.Store
	cats     []menuapi.Category
	products []menuapi.Product
	err      error
	calls    int
}

func (f *fakeFetcher) FetchStore(ctx context.Context) (*menuapi.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.store, nil
}

func (f *fakeFetcher) FetchCategories(ctx context.Context) ([]menuapi.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.cats, nil
}

func (f *fakeFetcher) FetchProducts(ctx context.Context) ([]menuapi.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeFetcher) storeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testStore(name string) *menuapi.Store {
	return &menuapi.Store{ID: "s1", Name: name}
}

func testProducts(titles ...string) []menuapi.Product {
	products := make([]menuapi.Product, len(titles))
	for i, t := range titles {
		products[i] = menuapi.Product{ID: t, Title: t}
	}
	return products
}

func TestGetRespectsTTL(t *testing.T) {
	f := &fakeFetcher{store: testStore("YSG"), products: testProducts("p1")}
	c := NewCache(f, time.Minute)

	base := time.Now()
	c.now = func() time.Time { return base }

	snap := c.Get(context.Background())
	require.NotNil(t, snap.Store)
	require.Equal(t, 1, f.storeCalls())

	// within TTL: served from the snapshot, zero upstream calls
	c.now = func() time.Time { return base.Add(30 * time.Second) }
	snap = c.Get(context.Background())
	assert.Equal(t, 1, f.storeCalls())
	assert.Equal(t, "YSG", snap.Store.Name)

	// past TTL: refetches
	c.now = func() time.Time { return base.Add(61 * time.Second) }
	c.Get(context.Background())
	assert.Equal(t, 2, f.storeCalls())
}

func TestGetKeepsSnapshotOnFetchFailure(t *testing.T) {
	f := &fakeFetcher{store: testStore("YSG"), products: testProducts("p1")}
	c := NewCache(f, time.Minute)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Get(context.Background())

	// upstream goes dark; the expired snapshot must survive
	f.mu.Lock()
	f.err = errors.New("upstream down")
	f.mu.Unlock()

	staleBefore := counterValue(t, metrics.CacheStaleServed)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	snap := c.Get(context.Background())

	assert.Equal(t, staleBefore+1, counterValue(t, metrics.CacheStaleServed))
	require.NotNil(t, snap.Store)
	assert.Equal(t, "YSG", snap.Store.Name)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "p1", snap.Products[0].Title)
}

func TestInvalidateForcesEmptyUntilRefetch(t *testing.T) {
	f := &fakeFetcher{store: testStore("YSG"), products: testProducts("p1")}
	c := NewCache(f, time.Minute)
	c.Get(context.Background())

	c.Invalidate()

	f.mu.Lock()
	f.err = errors.New("upstream down")
	f.mu.Unlock()

	snap := c.Get(context.Background())
	assert.Nil(t, snap.Store)
	assert.Empty(t, snap.Categories)
	assert.Empty(t, snap.Products)

	// upstream recovers; next Get repopulates
	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()

	snap = c.Get(context.Background())
	require.NotNil(t, snap.Store)
	assert.Len(t, snap.Products, 1)
}

func TestGetAcceptsPartialSuccess(t *testing.T) {
	// products present but no store record: still a usable snapshot
	f := &fakeFetcher{products: testProducts("p1", "p2")}
	c := NewCache(f, time.Minute)

	snap := c.Get(context.Background())
	assert.Nil(t, snap.Store)
	assert.Len(t, snap.Products, 2)
	assert.NotNil(t, snap.Categories)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestGetSingleFetchUnderConcurrency(t *testing.T) {
	f := &fakeFetcher{store: testStore("YSG"), products: testProducts("p1")}
	c := NewCache(f, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.storeCalls())
}
