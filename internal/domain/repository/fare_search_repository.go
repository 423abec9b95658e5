package repository

import (
	"context"
	"time"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
)

// FareSearchRepository defines the interface for an airline fare endpoint
type FareSearchRepository interface {
	Airline() entity.Airline
	Search(ctx context.Context, query entity.FareQuery) ([]entity.FareOffer, error)
}

// FareCacheRepository caches fare search results for the agent search surface
type FareCacheRepository interface {
	Get(ctx context.Context, key string) ([]entity.FareOffer, bool)
	Set(ctx context.Context, key string, offers []entity.FareOffer, ttl time.Duration) error
}
