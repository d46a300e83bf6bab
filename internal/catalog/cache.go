package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CachedProvider is a read-through TTL cache over another provider, so the
// product grid does not hit Shopify on every render. Entries are cached by
// request shape; expired entries are replaced on next read.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedProvider) ListProducts(ctx context.Context, opts ListOptions) (Page, error) {
	key := fmt.Sprintf("products|%s|%d|%s", opts.Collection, opts.Limit, opts.Cursor)
	if page, ok := cacheGet[Page](c, key); ok {
		return page, nil
	}

	page, err := c.inner.ListProducts(ctx, opts)
	if err != nil {
		return Page{}, err
	}
	c.put(key, page)
	return page, nil
}

func (c *CachedProvider) GetProduct(ctx context.Context, handle string) (Product, error) {
	key := "product|" + handle
	if product, ok := cacheGet[Product](c, key); ok {
		return product, nil
	}

	product, err := c.inner.GetProduct(ctx, handle)
	if err != nil {
		return Product{}, err
	}
	c.put(key, product)
	return product, nil
}

func (c *CachedProvider) ListCollections(ctx context.Context) ([]Collection, error) {
	key := "collections"
	if collections, ok := cacheGet[[]Collection](c, key); ok {
		return collections, nil
	}

	collections, err := c.inner.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	c.put(key, collections)
	return collections, nil
}

// Invalidate drops all cached entries. Exposed for tests and for the admin
// surface to force a refresh after catalog edits in Shopify.
func (c *CachedProvider) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *CachedProvider) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}

func cacheGet[T any](c *CachedProvider, key string) (T, bool) {
	var zero T
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return zero, false
	}
	value, ok := entry.value.(T)
	if !ok {
		return zero, false
	}
	return value, true
}
