package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/omarwaleed/egystore/app/models"
	"github.com/redis/go-redis/v9"
)

const productListKey = "products:list"

// ProductCache is a read-through cache for the public product listing.
// Every stock- or product-mutating operation must call Invalidate so
// cached listings never show stale stock.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	return &ProductCache{
		rdb: rdb,
		ttl: time.Hour,
	}
}

// GetList returns the cached listing and whether it was present. Cache
// errors are treated as misses.
func (c *ProductCache) GetList(ctx context.Context) ([]models.Product, bool) {
	raw, err := c.rdb.Get(ctx, productListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("ProductCache: failed to read %s: %v", productListKey, err)
		}
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Printf("ProductCache: failed to decode cached listing: %v", err)
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetList(ctx context.Context, products []models.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		log.Printf("ProductCache: failed to encode listing: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, productListKey, raw, c.ttl).Err(); err != nil {
		log.Printf("ProductCache: failed to write %s: %v", productListKey, err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, productListKey).Err()
}
