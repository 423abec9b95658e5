package usecase

import (
	"context"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/metrics"
)

// PriceAlertDispatcher notifies agents about price drops found by a sweep
type PriceAlertDispatcher struct {
	profileRepo repository.ProfileRepository
	notifiers   []repository.PriceAlertNotifier
	metrics     *metrics.Metrics
	logger      logger.Logger
}

// NewPriceAlertDispatcher creates a new alert dispatcher
func NewPriceAlertDispatcher(
	profileRepo repository.ProfileRepository,
	notifiers []repository.PriceAlertNotifier,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *PriceAlertDispatcher {
	return &PriceAlertDispatcher{
		profileRepo: profileRepo,
		notifiers:   notifiers,
		metrics:     metrics,
		logger:      logger,
	}
}

// Dispatch sends an alert for every decreased price in results and returns
// the number of messages delivered. Delivery failures never fail the call.
func (d *PriceAlertDispatcher) Dispatch(ctx context.Context, results []entity.PriceCheckResult) int {
	if len(d.notifiers) == 0 {
		return 0
	}

	profiles := make(map[string]*entity.AgentProfile)
	sent := 0

	for _, result := range results {
		if !result.PriceDecreased {
			continue
		}

		profile, ok := profiles[result.AgentID]
		if !ok {
			p, err := d.profileRepo.FindByID(ctx, result.AgentID)
			if err != nil {
				d.logger.Warn("Failed to load agent profile for price alert", "agent_id", result.AgentID, "error", err)
				d.metrics.ErrorsCount.WithLabelValues("load_alert_profile").Inc()
			}
			profile = p
			profiles[result.AgentID] = p
		}
		if profile == nil {
			continue
		}

		for _, notifier := range d.notifiers {
			if !notifier.Enabled(profile) {
				continue
			}

			if err := notifier.Send(ctx, profile, result); err != nil {
				d.logger.Error("Failed to send price alert",
					"channel", notifier.Channel(),
					"flight_id", result.FlightID,
					"error", err,
				)
				d.metrics.AlertsSent.WithLabelValues(notifier.Channel(), "error").Inc()
				continue
			}

			d.metrics.AlertsSent.WithLabelValues(notifier.Channel(), "sent").Inc()
			sent++
		}
	}

	if sent > 0 {
		d.logger.Info("Price alerts sent", "count", sent)
	}
	return sent
}
