package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

// MemoryFareCache keeps fare results in process memory
type MemoryFareCache struct {
	cache *Cache[[]entity.FareOffer]
}

// NewMemoryFareCache creates an in-process fare cache
func NewMemoryFareCache() repository.FareCacheRepository {
	return &MemoryFareCache{cache: New(cloneOffers)}
}

// Get returns cached offers
func (c *MemoryFareCache) Get(ctx context.Context, key string) ([]entity.FareOffer, bool) {
	return c.cache.Get(key)
}

// Set caches offers for ttl
func (c *MemoryFareCache) Set(ctx context.Context, key string, offers []entity.FareOffer, ttl time.Duration) error {
	c.cache.Set(key, offers, ttl)
	return nil
}

func cloneOffers(offers []entity.FareOffer) []entity.FareOffer {
	if offers == nil {
		return nil
	}
	out := make([]entity.FareOffer, len(offers))
	for i, o := range offers {
		out[i] = o
		if o.Return != nil {
			ret := *o.Return
			out[i].Return = &ret
		}
	}
	return out
}

// RedisFareCache shares fare results between instances
type RedisFareCache struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisFareCache creates a fare cache on an existing Redis client
func NewRedisFareCache(client *redis.Client, logger logger.Logger) repository.FareCacheRepository {
	return &RedisFareCache{
		client: client,
		logger: logger,
	}
}

// Get returns cached offers. Redis failures are treated as a miss.
func (c *RedisFareCache) Get(ctx context.Context, key string) ([]entity.FareOffer, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Fare cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var offers []entity.FareOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		c.logger.Warn("Fare cache entry is corrupt", "key", key, "error", err)
		return nil, false
	}
	return offers, true
}

// Set caches offers for ttl
func (c *RedisFareCache) Set(ctx context.Context, key string, offers []entity.FareOffer, ttl time.Duration) error {
	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("failed to marshal offers: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache offers: %w", err)
	}
	return nil
}

// NewFareCache returns a Redis cache when addr is set and reachable,
// otherwise an in-process cache
func NewFareCache(ctx context.Context, addr, password string, db int, logger logger.Logger) repository.FareCacheRepository {
	if addr == "" {
		return NewMemoryFareCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, using in-memory fare cache", "addr", addr, "error", err)
		_ = client.Close()
		return NewMemoryFareCache()
	}

	logger.Info("Using Redis fare cache", "addr", addr)
	return NewRedisFareCache(client, logger)
}
