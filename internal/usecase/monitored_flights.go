package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/utils"
)

// ErrInvalidMonitoredFlight is returned for a monitored flight that breaks a field rule
var ErrInvalidMonitoredFlight = errors.New("invalid monitored flight")

var airportCode = regexp.MustCompile(`^[A-Z]{3}$`)

// CreateMonitoredFlightInput is an agent request to track a held booking
type CreateMonitoredFlightInput struct {
	Airline              string
	DepartureAirport     string
	ArrivalAirport       string
	DepartureDate        string
	DepartureTime        string
	ReturnDate           string
	ReturnTime           string
	Segments             []entity.FlightSegment
	TicketClass          string
	CheckIntervalMinutes int
	CurrentPrice         *int64
	PNR                  string
}

// UpdateMonitoredFlightInput changes the agent controlled settings
type UpdateMonitoredFlightInput struct {
	IsActive             *bool
	CheckIntervalMinutes *int
}

// MonitoredFlights manages the monitored flights of agents
type MonitoredFlights struct {
	flightRepo repository.MonitoredFlightRepository
	logger     logger.Logger
}

// NewMonitoredFlights creates a new monitored flight use case
func NewMonitoredFlights(flightRepo repository.MonitoredFlightRepository, logger logger.Logger) *MonitoredFlights {
	return &MonitoredFlights{
		flightRepo: flightRepo,
		logger:     logger,
	}
}

// Create validates and stores a new active monitored flight
func (u *MonitoredFlights) Create(ctx context.Context, agentID string, input CreateMonitoredFlightInput) (*entity.MonitoredFlight, error) {
	flight, err := buildMonitoredFlight(agentID, input)
	if err != nil {
		return nil, err
	}

	if err := u.flightRepo.Create(ctx, flight); err != nil {
		return nil, err
	}

	u.logger.Info("Monitored flight created",
		"flightID", flight.ID,
		"agentID", agentID,
		"airline", string(flight.Airline),
		"route", flight.Route())

	return flight, nil
}

// List returns the monitored flights of an agent
func (u *MonitoredFlights) List(ctx context.Context, agentID string) ([]*entity.MonitoredFlight, error) {
	return u.flightRepo.FindByAgent(ctx, agentID)
}

// Update changes the active flag and/or interval of a flight owned by the agent.
// Flights of other agents read as not found.
func (u *MonitoredFlights) Update(ctx context.Context, agentID, flightID string, input UpdateMonitoredFlightInput) (*entity.MonitoredFlight, error) {
	if input.CheckIntervalMinutes != nil && *input.CheckIntervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: check interval must be positive", ErrInvalidMonitoredFlight)
	}

	flight, err := u.flightRepo.FindByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight.AgentID != agentID {
		return nil, repository.ErrNotFound
	}

	if err := u.flightRepo.UpdateSettings(ctx, flightID, input.IsActive, input.CheckIntervalMinutes); err != nil {
		return nil, err
	}

	if input.IsActive != nil {
		flight.IsActive = *input.IsActive
	}
	if input.CheckIntervalMinutes != nil {
		flight.CheckIntervalMinutes = *input.CheckIntervalMinutes
	}

	u.logger.Info("Monitored flight updated",
		"flightID", flightID,
		"isActive", flight.IsActive,
		"interval", flight.CheckIntervalMinutes)

	return flight, nil
}

func buildMonitoredFlight(agentID string, in CreateMonitoredFlightInput) (*entity.MonitoredFlight, error) {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidMonitoredFlight, fmt.Sprintf(format, args...))
	}

	airline := entity.ClassifyAirline(in.Airline)
	if !airline.IsPrimary() {
		return nil, invalid("unsupported airline %q", in.Airline)
	}

	dep := strings.ToUpper(strings.TrimSpace(in.DepartureAirport))
	arr := strings.ToUpper(strings.TrimSpace(in.ArrivalAirport))
	if !airportCode.MatchString(dep) || !airportCode.MatchString(arr) {
		return nil, invalid("airport codes must have three letters")
	}

	depDate, err := utils.NormalizeDate(in.DepartureDate)
	if err != nil {
		return nil, invalid("departure date: %v", err)
	}

	depTime, err := optionalClock(in.DepartureTime)
	if err != nil {
		return nil, invalid("departure time: %v", err)
	}

	if in.CheckIntervalMinutes < 0 {
		return nil, invalid("check interval must be positive")
	}
	interval := in.CheckIntervalMinutes
	if interval == 0 {
		interval = entity.DefaultCheckIntervalMinutes
	}

	flight := &entity.MonitoredFlight{
		AgentID:              agentID,
		Airline:              airline,
		DepartureAirport:     dep,
		ArrivalAirport:       arr,
		DepartureDate:        depDate,
		DepartureTime:        depTime,
		TicketClass:          ticketClass(in.TicketClass),
		CurrentPrice:         in.CurrentPrice,
		CheckIntervalMinutes: interval,
		IsActive:             true,
		PNR:                  strings.TrimSpace(in.PNR),
	}

	if in.ReturnDate != "" {
		retDate, err := utils.NormalizeDate(in.ReturnDate)
		if err != nil {
			return nil, invalid("return date: %v", err)
		}
		if retDate < depDate {
			return nil, invalid("return date is before departure date")
		}
		retTime, err := optionalClock(in.ReturnTime)
		if err != nil {
			return nil, invalid("return time: %v", err)
		}
		flight.Return = &entity.ReturnConstraint{Date: retDate, Time: retTime}
	} else if in.ReturnTime != "" {
		return nil, invalid("return time requires a return date")
	}

	for i, seg := range in.Segments {
		s, err := normalizeSegment(seg)
		if err != nil {
			return nil, invalid("segment %d: %v", i+1, err)
		}
		flight.Segments = append(flight.Segments, s)
	}

	return flight, nil
}

func normalizeSegment(seg entity.FlightSegment) (entity.FlightSegment, error) {
	seg.DepartureAirport = strings.ToUpper(strings.TrimSpace(seg.DepartureAirport))
	seg.ArrivalAirport = strings.ToUpper(strings.TrimSpace(seg.ArrivalAirport))
	if !airportCode.MatchString(seg.DepartureAirport) || !airportCode.MatchString(seg.ArrivalAirport) {
		return seg, errors.New("airport codes must have three letters")
	}

	date, err := utils.NormalizeDate(seg.DepartureDate)
	if err != nil {
		return seg, err
	}
	seg.DepartureDate = date

	clock, err := optionalClock(seg.DepartureTime)
	if err != nil {
		return seg, err
	}
	seg.DepartureTime = clock
	seg.TicketClass = ticketClass(seg.TicketClass)

	return seg, nil
}

func optionalClock(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	if !utils.IsClock(value) {
		return "", fmt.Errorf("%q is not a HH:MM time", value)
	}
	return utils.NormalizeClock(value), nil
}

func ticketClass(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), entity.TicketClassBusiness) {
		return entity.TicketClassBusiness
	}
	return entity.TicketClassEconomy
}
