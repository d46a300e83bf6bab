package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogJSON = `{
	"products": [
		{"id": "p1", "handle": "aurora-print", "title": "Aurora Print",
		 "priceMin": {"cents": 3500, "currency": "USD"},
		 "priceMax": {"cents": 9500, "currency": "USD"},
		 "variants": [{"id": "v1", "title": "12x18", "price": {"cents": 3500, "currency": "USD"}, "available": true}]},
		{"id": "p2", "handle": "tidepool-print", "title": "Tidepool Print",
		 "variants": [{"id": "v2", "title": "Default", "price": {"cents": 4200, "currency": "USD"}, "available": true}]},
		{"id": "p3", "handle": "dune-print", "title": "Dune Print",
		 "variants": [{"id": "v3", "title": "Default", "price": {"cents": 2800, "currency": "USD"}, "available": true}]}
	],
	"collections": [
		{"id": "c1", "handle": "landscapes", "title": "Landscapes",
		 "productHandles": ["aurora-print", "dune-print"]}
	]
}`

func newTestLocal(t *testing.T) *LocalProvider {
	t.Helper()
	p, err := newLocalProviderFromBytes([]byte(testCatalogJSON))
	require.NoError(t, err)
	return p
}

func TestLocalListProducts(t *testing.T) {
	p := newTestLocal(t)

	page, err := p.ListProducts(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)
	assert.False(t, page.HasNextPage)
}

func TestLocalPagination(t *testing.T) {
	p := newTestLocal(t)
	ctx := context.Background()

	first, err := p.ListProducts(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first.Products, 2)
	require.True(t, first.HasNextPage)

	second, err := p.ListProducts(ctx, ListOptions{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	assert.Len(t, second.Products, 1)
	assert.False(t, second.HasNextPage)
	assert.Equal(t, "dune-print", second.Products[0].Handle)
}

func TestLocalInvalidCursor(t *testing.T) {
	p := newTestLocal(t)

	_, err := p.ListProducts(context.Background(), ListOptions{Cursor: "not-a-number"})
	assert.Error(t, err)
}

func TestLocalCollectionFilter(t *testing.T) {
	p := newTestLocal(t)
	ctx := context.Background()

	page, err := p.ListProducts(ctx, ListOptions{Collection: "landscapes"})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "aurora-print", page.Products[0].Handle)

	_, err = p.ListProducts(ctx, ListOptions{Collection: "no-such-collection"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalGetProduct(t *testing.T) {
	p := newTestLocal(t)

	product, err := p.GetProduct(context.Background(), "tidepool-print")
	require.NoError(t, err)
	assert.Equal(t, "Tidepool Print", product.Title)

	_, err = p.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalListCollections(t *testing.T) {
	p := newTestLocal(t)

	collections, err := p.ListCollections(context.Background())
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, "landscapes", collections[0].Handle)
}

func TestLocalRejectsDuplicateHandles(t *testing.T) {
	_, err := newLocalProviderFromBytes([]byte(`{"products":[
		{"id":"p1","handle":"dup","title":"A"},
		{"id":"p2","handle":"dup","title":"B"}
	]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

// countingProvider wraps a provider counting calls, for cache tests.
type countingProvider struct {
	inner Provider
	calls int
}

func (c *countingProvider) ListProducts(ctx context.Context, opts ListOptions) (Page, error) {
	c.calls++
	return c.inner.ListProducts(ctx, opts)
}

func (c *countingProvider) GetProduct(ctx context.Context, handle string) (Product, error) {
	c.calls++
	return c.inner.GetProduct(ctx, handle)
}

func (c *countingProvider) ListCollections(ctx context.Context) ([]Collection, error) {
	c.calls++
	return c.inner.ListCollections(ctx)
}

func TestCachedProviderServesFromCache(t *testing.T) {
	counting := &countingProvider{inner: newTestLocal(t)}
	cached := NewCachedProvider(counting, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cached.GetProduct(ctx, "aurora-print")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, counting.calls, "repeat reads hit the cache")

	// Different request shapes are cached independently.
	_, err := cached.ListProducts(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	_, err = cached.ListProducts(ctx, ListOptions{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, counting.calls)
}

func TestCachedProviderExpiry(t *testing.T) {
	counting := &countingProvider{inner: newTestLocal(t)}
	cached := NewCachedProvider(counting, 5*time.Minute)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := cached.ListCollections(ctx)
	require.NoError(t, err)
	_, err = cached.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.calls)

	// Step past the TTL; the next read refreshes from the inner provider.
	now = now.Add(6 * time.Minute)
	_, err = cached.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counting.calls)
}

func TestCachedProviderInvalidate(t *testing.T) {
	counting := &countingProvider{inner: newTestLocal(t)}
	cached := NewCachedProvider(counting, 5*time.Minute)
	ctx := context.Background()

	_, err := cached.ListCollections(ctx)
	require.NoError(t, err)
	cached.Invalidate()
	_, err = cached.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counting.calls)
}

func TestCachedProviderErrorsNotCached(t *testing.T) {
	counting := &countingProvider{inner: newTestLocal(t)}
	cached := NewCachedProvider(counting, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cached.GetProduct(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 2, counting.calls, "misses are retried, not cached")
}
