package repository

import (
	"context"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
)

// ProfileRepository defines the interface for agent profile lookups
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*entity.AgentProfile, error)
}
