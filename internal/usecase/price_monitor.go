package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/pricing"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/metrics"
)

// FareRouter resolves the fare endpoint of an airline
type FareRouter interface {
	Get(airline entity.Airline) repository.FareSearchRepository
}

// PriceMonitor re-checks the live fare of monitored flights
type PriceMonitor struct {
	flightRepo  repository.MonitoredFlightRepository
	router      FareRouter
	metrics     *metrics.Metrics
	logger      logger.Logger
	concurrency int
	callTimeout time.Duration
	now         func() time.Time
}

// NewPriceMonitor creates a new price monitor
func NewPriceMonitor(
	flightRepo repository.MonitoredFlightRepository,
	router FareRouter,
	metrics *metrics.Metrics,
	logger logger.Logger,
	concurrency int,
	callTimeout time.Duration,
) *PriceMonitor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PriceMonitor{
		flightRepo:  flightRepo,
		router:      router,
		metrics:     metrics,
		logger:      logger,
		concurrency: concurrency,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// RunSweep checks every due active flight, or only flightID when given.
// A flight that yields no price is skipped silently. Only a failure to load
// the flights fails the sweep.
func (m *PriceMonitor) RunSweep(ctx context.Context, flightID string) (*entity.SweepResult, error) {
	start := time.Now()
	now := m.now()

	trigger := "scheduled"
	if flightID != "" {
		trigger = "manual"
	}

	flights, err := m.loadFlights(ctx, flightID, now)
	if err != nil {
		m.metrics.SweepsTotal.WithLabelValues(trigger, "error").Inc()
		m.metrics.ErrorsCount.WithLabelValues("load_monitored_flights").Inc()
		return nil, err
	}

	checked := make([]*entity.PriceCheckResult, len(flights))

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i, flight := range flights {
		i, flight := i, flight
		g.Go(func() error {
			checked[i] = m.checkFlight(ctx, flight, now)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]entity.PriceCheckResult, 0, len(checked))
	for _, r := range checked {
		if r != nil {
			results = append(results, *r)
		}
	}

	m.metrics.SweepsTotal.WithLabelValues(trigger, "success").Inc()
	m.metrics.SweepDuration.Observe(time.Since(start).Seconds())

	m.logger.Info("Price sweep completed",
		"trigger", trigger,
		"candidates", len(flights),
		"updated", len(results),
		"duration", time.Since(start).String())

	return &entity.SweepResult{
		Success: true,
		Checked: len(results),
		Results: results,
	}, nil
}

func (m *PriceMonitor) loadFlights(ctx context.Context, flightID string, now time.Time) ([]*entity.MonitoredFlight, error) {
	if flightID != "" {
		flight, err := m.flightRepo.FindByID(ctx, flightID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				m.logger.Warn("Monitored flight not found", "flightID", flightID)
				return nil, nil
			}
			return nil, fmt.Errorf("failed to load monitored flight: %w", err)
		}
		return []*entity.MonitoredFlight{flight}, nil
	}

	active, err := m.flightRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load monitored flights: %w", err)
	}

	due := make([]*entity.MonitoredFlight, 0, len(active))
	for _, flight := range active {
		if flight.IsDue(now) {
			due = append(due, flight)
		}
	}
	return due, nil
}

// checkFlight returns nil when the flight produced no persisted price
func (m *PriceMonitor) checkFlight(ctx context.Context, flight *entity.MonitoredFlight, now time.Time) (result *entity.PriceCheckResult) {
	log := m.logger.With("flightID", flight.ID, "airline", string(flight.Airline))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic while checking flight", "panic", r)
			m.metrics.ExtractionFailures.WithLabelValues(string(flight.Airline), "panic").Inc()
			result = nil
		}
	}()

	price, ok := m.fetchPrice(ctx, flight, log)
	if !ok {
		return nil
	}

	if err := m.flightRepo.UpdatePrice(ctx, flight.ID, price, now); err != nil {
		log.Error("Failed to store new price", "price", price, "error", err)
		m.metrics.ErrorsCount.WithLabelValues("update_price").Inc()
		return nil
	}

	checked := entity.NewPriceCheckResult(flight, price)
	m.metrics.PriceUpdates.WithLabelValues(direction(checked)).Inc()

	log.Info("Monitored flight price updated",
		"route", checked.Route,
		"newPrice", price,
		"difference", checked.PriceDifference)

	return &checked
}

func (m *PriceMonitor) fetchPrice(ctx context.Context, flight *entity.MonitoredFlight, log logger.Logger) (int64, bool) {
	client := m.router.Get(flight.Airline)
	if client == nil {
		log.Debug("No fare endpoint for airline")
		m.metrics.ExtractionFailures.WithLabelValues(string(flight.Airline), "unsupported_airline").Inc()
		return 0, false
	}

	callCtx := ctx
	if m.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, m.callTimeout)
		defer cancel()
	}

	m.metrics.FlightsChecked.Inc()
	offers, err := client.Search(callCtx, flight.FareQuery())
	if err != nil {
		log.Warn("Fare search failed", "error", err)
		m.metrics.ExtractionFailures.WithLabelValues(string(flight.Airline), "endpoint_error").Inc()
		return 0, false
	}
	if len(offers) == 0 {
		log.Debug("Fare endpoint returned no offers")
		m.metrics.ExtractionFailures.WithLabelValues(string(flight.Airline), "no_offers").Inc()
		return 0, false
	}

	// partner carriers on the same endpoint are not the booked fare
	own := make([]entity.FareOffer, 0, len(offers))
	for _, o := range offers {
		if o.Airline == flight.Airline {
			own = append(own, o)
		}
	}

	price, ok := pricing.CheapestMatching(own, flight.TimeConstraint())
	if !ok {
		log.Debug("No offer matches the booked times", "offers", len(offers))
		m.metrics.ExtractionFailures.WithLabelValues(string(flight.Airline), "no_match").Inc()
		return 0, false
	}
	return price, true
}

func direction(r entity.PriceCheckResult) string {
	switch {
	case r.PriceDecreased:
		return "decreased"
	case r.PriceIncreased:
		return "increased"
	case r.OldPrice == nil:
		return "initial"
	default:
		return "unchanged"
	}
}
