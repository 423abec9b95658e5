package repository

import (
	"context"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
)

// SearchLogRepository defines the interface for search audit storage
type SearchLogRepository interface {
	Save(ctx context.Context, log *entity.SearchLog) error
}
