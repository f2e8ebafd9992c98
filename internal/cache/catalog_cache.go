package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/replaygear/replay_api/internal/models"
)

// CatalogPage is a cached page of the public catalog listing.
type CatalogPage struct {
	Products   []models.Product `json:"products"`
	TotalItems int              `json:"totalItems"`
	CachedAt   time.Time        `json:"cachedAt"`
}

// CatalogCache caches public product listings keyed by their filter set.
// Any catalog write (admin CRUD or sell-request promotion) invalidates
// the whole listing namespace.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCatalogCache creates a CatalogCache with the given page TTL.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: redis, ttl: ttl}
}

func (c *CatalogCache) pageKey(productType, category, search string, page, limit int) string {
	return fmt.Sprintf("catalog:page:%s:%s:%s:%d:%d", productType, category, search, page, limit)
}

// GetPage returns a cached listing page, or (nil, nil) on a miss.
func (c *CatalogCache) GetPage(ctx context.Context, productType, category, search string, page, limit int) (*CatalogPage, error) {
	raw, err := c.redis.Get(ctx, c.pageKey(productType, category, search, page, limit))
	if err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, err
	}

	var cached CatalogPage
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog page: %w", err)
	}
	return &cached, nil
}

// SetPage stores a listing page under its filter key.
func (c *CatalogCache) SetPage(ctx context.Context, productType, category, search string, page, limit int, products []models.Product, totalItems int) error {
	cached := CatalogPage{
		Products:   products,
		TotalItems: totalItems,
		CachedAt:   time.Now(),
	}
	data, err := json.Marshal(&cached)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog page: %w", err)
	}
	return c.redis.Set(ctx, c.pageKey(productType, category, search, page, limit), string(data), c.ttl)
}

// Invalidate drops every cached listing page.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.redis.DeleteByPattern(ctx, "catalog:page:*")
}
