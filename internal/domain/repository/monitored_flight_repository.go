package repository

import (
	"context"
	"time"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
)

// MonitoredFlightRepository defines the interface for monitored flight operations
type MonitoredFlightRepository interface {
	FindByID(ctx context.Context, id string) (*entity.MonitoredFlight, error)
	FindActive(ctx context.Context) ([]*entity.MonitoredFlight, error)
	FindByAgent(ctx context.Context, agentID string) ([]*entity.MonitoredFlight, error)
	Create(ctx context.Context, flight *entity.MonitoredFlight) error
	UpdatePrice(ctx context.Context, id string, price int64, checkedAt time.Time) error
	UpdateSettings(ctx context.Context, id string, isActive *bool, intervalMinutes *int) error
}
