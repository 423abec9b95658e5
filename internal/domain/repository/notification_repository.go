package repository

import (
	"context"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
)

// PriceAlertNotifier delivers a price alert to an agent over one channel
type PriceAlertNotifier interface {
	Channel() string
	// Enabled reports whether the agent can be reached over this channel
	Enabled(profile *entity.AgentProfile) bool
	Send(ctx context.Context, profile *entity.AgentProfile, alert entity.PriceCheckResult) error
}
