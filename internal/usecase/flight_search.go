package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/pricing"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/metrics"
)

// ErrSearchForbidden is returned when the agent may not search any airline
var ErrSearchForbidden = errors.New("agent is not allowed to search fares")

// vfrBaggageTag marks VNA fares with two checked pieces
const vfrBaggageTag = "VFR"

// SearchFilters narrows the primary offers of a search
type SearchFilters struct {
	Airlines     []entity.Airline
	DirectOnly   bool
	Show2pc      bool
	CheapestOnly bool
}

// SearchInput is an agent fare search
type SearchInput struct {
	Query   entity.FareQuery
	Filters SearchFilters
}

// SearchOutput holds the priced offers of a search
type SearchOutput struct {
	Offers           []entity.DisplayedOffer `json:"flights"`
	OtherOffers      []entity.DisplayedOffer `json:"other_flights"`
	CheapestOther    *entity.DisplayedOffer  `json:"cheapest_other,omitempty"`
	HasDirectFlights bool                    `json:"has_direct_flights"`
	HasVfr2pc        bool                    `json:"has_vfr_2pc"`
	FailedAirlines   []entity.Airline        `json:"failed_airlines,omitempty"`
}

// FlightSearch searches the primary airlines on behalf of an agent
type FlightSearch struct {
	profileRepo   repository.ProfileRepository
	searchLogRepo repository.SearchLogRepository
	router        FareRouter
	cache         repository.FareCacheRepository
	cacheTTL      time.Duration
	callTimeout   time.Duration
	metrics       *metrics.Metrics
	logger        logger.Logger
}

// NewFlightSearch creates a new flight search use case
func NewFlightSearch(
	profileRepo repository.ProfileRepository,
	searchLogRepo repository.SearchLogRepository,
	router FareRouter,
	fareCache repository.FareCacheRepository,
	cacheTTL time.Duration,
	callTimeout time.Duration,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *FlightSearch {
	return &FlightSearch{
		profileRepo:   profileRepo,
		searchLogRepo: searchLogRepo,
		router:        router,
		cache:         fareCache,
		cacheTTL:      cacheTTL,
		callTimeout:   callTimeout,
		metrics:       metrics,
		logger:        logger,
	}
}

// Search queries every airline the agent may see and prices the results
func (s *FlightSearch) Search(ctx context.Context, agentID string, input SearchInput) (*SearchOutput, error) {
	profile, err := s.profileRepo.FindByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown agent", ErrSearchForbidden)
		}
		return nil, fmt.Errorf("failed to load agent profile: %w", err)
	}

	airlines := permittedAirlines(profile)
	if len(airlines) == 0 {
		return nil, ErrSearchForbidden
	}

	var (
		mu       sync.Mutex
		raw      []entity.FareOffer
		failed   []entity.Airline
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, airline := range airlines {
		airline := airline
		g.Go(func() error {
			offers, err := s.fetch(gctx, airline, input.Query)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("Airline search failed", "airline", string(airline), "error", err)
				failed = append(failed, airline)
				if firstErr == nil {
					firstErr = err
				}
				return nil
			}
			raw = append(raw, offers...)
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) == len(airlines) {
		return nil, fmt.Errorf("all fare endpoints failed: %w", firstErr)
	}

	output := s.buildOutput(profile, raw, input.Filters)
	output.FailedAirlines = failed

	s.recordSearch(ctx, agentID, input.Query, output)

	return output, nil
}

func (s *FlightSearch) fetch(ctx context.Context, airline entity.Airline, q entity.FareQuery) ([]entity.FareOffer, error) {
	key := fareCacheKey(airline, q)
	if offers, ok := s.cache.Get(ctx, key); ok {
		s.metrics.SearchRequests.WithLabelValues(string(airline), "cache_hit").Inc()
		return offers, nil
	}

	client := s.router.Get(airline)
	if client == nil {
		return nil, fmt.Errorf("no fare endpoint registered for %s", airline)
	}

	callCtx := ctx
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	offers, err := client.Search(callCtx, q)
	if err != nil {
		s.metrics.SearchRequests.WithLabelValues(string(airline), "error").Inc()
		return nil, err
	}
	s.metrics.SearchRequests.WithLabelValues(string(airline), "success").Inc()

	if err := s.cache.Set(ctx, key, offers, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache fare results", "airline", string(airline), "error", err)
	}
	return offers, nil
}

func (s *FlightSearch) buildOutput(profile *entity.AgentProfile, raw []entity.FareOffer, filters SearchFilters) *SearchOutput {
	output := &SearchOutput{
		Offers:      []entity.DisplayedOffer{},
		OtherOffers: []entity.DisplayedOffer{},
	}

	var primary []entity.DisplayedOffer
	for _, offer := range raw {
		displayed := pricing.PriceOffer(offer, profile.Pricing)

		if !offer.Airline.IsPrimary() {
			if !profile.AllowsOtherCarrier(offer.Carrier) {
				continue
			}
			displayed.CarrierName = entity.OtherCarrierNames[offer.Carrier]
			baggage := entity.BaggageFor(offer.Carrier)
			displayed.Baggage = &baggage
			output.OtherOffers = append(output.OtherOffers, displayed)
			continue
		}

		if offer.IsDirect() {
			output.HasDirectFlights = true
		}
		if offer.Airline == entity.AirlineVNA && offer.BaggageTag == vfrBaggageTag {
			output.HasVfr2pc = true
		}
		primary = append(primary, displayed)
	}

	// filters that cannot match anything are dropped
	if !output.HasDirectFlights {
		filters.DirectOnly = false
	}
	if !output.HasVfr2pc {
		filters.Show2pc = false
	}

	output.Offers = append(output.Offers, ApplyFilters(primary, filters)...)

	sort.SliceStable(output.OtherOffers, func(i, j int) bool {
		return output.OtherOffers[i].SellPrice < output.OtherOffers[j].SellPrice
	})
	if len(output.OtherOffers) > 0 {
		cheapest := output.OtherOffers[0]
		output.CheapestOther = &cheapest
	}

	return output
}

// ApplyFilters applies the portal filters and sorts direct itineraries
// first, then by base price
func ApplyFilters(offers []entity.DisplayedOffer, filters SearchFilters) []entity.DisplayedOffer {
	filtered := make([]entity.DisplayedOffer, 0, len(offers))
	for _, o := range offers {
		if len(filters.Airlines) > 0 && !containsAirline(filters.Airlines, o.Airline) {
			continue
		}
		if filters.DirectOnly && !o.IsDirect() {
			continue
		}
		if filters.Show2pc && !(o.Airline == entity.AirlineVJ || (o.Airline == entity.AirlineVNA && o.BaggageTag == vfrBaggageTag)) {
			continue
		}
		filtered = append(filtered, o)
	}

	if filters.CheapestOnly {
		filtered = cheapestPerAirline(filtered)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		di, dj := filtered[i].IsDirect(), filtered[j].IsDirect()
		if di != dj {
			return di
		}
		return filtered[i].Price < filtered[j].Price
	})

	return filtered
}

func cheapestPerAirline(offers []entity.DisplayedOffer) []entity.DisplayedOffer {
	best := map[entity.Airline]int{}
	for i, o := range offers {
		if j, ok := best[o.Airline]; !ok || o.Price < offers[j].Price {
			best[o.Airline] = i
		}
	}

	out := make([]entity.DisplayedOffer, 0, len(best))
	for _, airline := range []entity.Airline{entity.AirlineVJ, entity.AirlineVNA} {
		if i, ok := best[airline]; ok {
			out = append(out, offers[i])
		}
	}
	return out
}

func (s *FlightSearch) recordSearch(ctx context.Context, agentID string, q entity.FareQuery, output *SearchOutput) {
	failed := make([]string, 0, len(output.FailedAirlines))
	for _, a := range output.FailedAirlines {
		failed = append(failed, string(a))
	}

	log := &entity.SearchLog{
		AgentID: agentID,
		Criteria: entity.SearchParams{
			From:          q.DepartureAirport,
			To:            q.ArrivalAirport,
			DepartureDate: q.DepartureDate,
			ReturnDate:    q.ReturnDate,
			Adults:        q.Adults,
			Children:      q.Children,
			Infants:       q.Infants,
		},
		PrimaryOffers: len(output.Offers),
		OtherOffers:   len(output.OtherOffers),
		FailedSources: failed,
	}

	if err := s.searchLogRepo.Save(ctx, log); err != nil {
		s.logger.Error("Failed to record search", "agentID", agentID, "error", err)
		s.metrics.ErrorsCount.WithLabelValues("save_search_log").Inc()
	}
}

func fareCacheKey(airline entity.Airline, q entity.FareQuery) string {
	return "fares:" + strings.Join([]string{
		string(airline),
		q.DepartureAirport,
		q.ArrivalAirport,
		q.DepartureDate,
		q.ReturnDate,
		q.TicketClass,
		fmt.Sprintf("%d-%d-%d", q.Adults, q.Children, q.Infants),
	}, ":")
}

func permittedAirlines(profile *entity.AgentProfile) []entity.Airline {
	var airlines []entity.Airline
	if profile.PermCheckVJ {
		airlines = append(airlines, entity.AirlineVJ)
	}
	if profile.PermCheckVNA {
		airlines = append(airlines, entity.AirlineVNA)
	}
	return airlines
}

func containsAirline(airlines []entity.Airline, airline entity.Airline) bool {
	for _, a := range airlines {
		if a == airline {
			return true
		}
	}
	return false
}
