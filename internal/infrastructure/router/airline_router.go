package router

import (
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

// AirlineRouter routes monitored flights and searches to the fare endpoint of their airline
type AirlineRouter struct {
	clients map[entity.Airline]repository.FareSearchRepository
	logger  logger.Logger
}

// NewAirlineRouter creates a new airline router
func NewAirlineRouter(logger logger.Logger) *AirlineRouter {
	return &AirlineRouter{
		clients: make(map[entity.Airline]repository.FareSearchRepository),
		logger:  logger,
	}
}

// Register registers a fare search client under its airline
func (r *AirlineRouter) Register(client repository.FareSearchRepository) {
	r.clients[client.Airline()] = client
	r.logger.Info("Registered fare search client", "airline", string(client.Airline()))
}

// Get returns the client for an airline, or nil when none is registered
func (r *AirlineRouter) Get(airline entity.Airline) repository.FareSearchRepository {
	return r.clients[airline]
}

// Airlines lists the registered airlines
func (r *AirlineRouter) Airlines() []entity.Airline {
	airlines := make([]entity.Airline, 0, len(r.clients))
	for airline := range r.clients {
		airlines = append(airlines, airline)
	}
	return airlines
}
