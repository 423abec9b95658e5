package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/usecase"
)

// MonitoredFlightService manages an agent's monitored flights
type MonitoredFlightService interface {
	Create(ctx context.Context, agentID string, input usecase.CreateMonitoredFlightInput) (*entity.MonitoredFlight, error)
	List(ctx context.Context, agentID string) ([]*entity.MonitoredFlight, error)
	Update(ctx context.Context, agentID, flightID string, input usecase.UpdateMonitoredFlightInput) (*entity.MonitoredFlight, error)
}

// MonitoredFlightHandler exposes monitored flight management
type MonitoredFlightHandler struct {
	service MonitoredFlightService
}

// NewMonitoredFlightHandler creates a new monitored flight handler
func NewMonitoredFlightHandler(service MonitoredFlightService) *MonitoredFlightHandler {
	return &MonitoredFlightHandler{service: service}
}

type createMonitoredFlightRequest struct {
	Airline              string                 `json:"airline" binding:"required,oneof=VJ VNA"`
	DepartureAirport     string                 `json:"departure_airport" binding:"required,airport"`
	ArrivalAirport       string                 `json:"arrival_airport" binding:"required,airport"`
	DepartureDate        string                 `json:"departure_date" binding:"required,date"`
	DepartureTime        string                 `json:"departure_time" binding:"omitempty,clock"`
	ReturnDate           string                 `json:"return_date" binding:"omitempty,date"`
	ReturnTime           string                 `json:"return_time" binding:"omitempty,clock"`
	Segments             []entity.FlightSegment `json:"segments"`
	TicketClass          string                 `json:"ticket_class" binding:"omitempty,oneof=economy business"`
	CheckIntervalMinutes int                    `json:"check_interval_minutes" binding:"min=0"`
	CurrentPrice         *int64                 `json:"current_price"`
	PNR                  string                 `json:"pnr"`
}

type updateMonitoredFlightRequest struct {
	IsActive             *bool `json:"is_active"`
	CheckIntervalMinutes *int  `json:"check_interval_minutes" binding:"omitempty,min=1"`
}

type monitoredFlightResponse struct {
	ID                   string                 `json:"id"`
	Airline              entity.Airline         `json:"airline"`
	DepartureAirport     string                 `json:"departure_airport"`
	ArrivalAirport       string                 `json:"arrival_airport"`
	DepartureDate        string                 `json:"departure_date"`
	DepartureTime        string                 `json:"departure_time,omitempty"`
	IsRoundTrip          bool                   `json:"is_round_trip"`
	ReturnDate           string                 `json:"return_date,omitempty"`
	ReturnTime           string                 `json:"return_time,omitempty"`
	Segments             []entity.FlightSegment `json:"segments,omitempty"`
	TicketClass          string                 `json:"ticket_class"`
	CurrentPrice         *int64                 `json:"current_price"`
	LastCheckedAt        *time.Time             `json:"last_checked_at"`
	CheckIntervalMinutes int                    `json:"check_interval_minutes"`
	IsActive             bool                   `json:"is_active"`
	PNR                  string                 `json:"pnr,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
}

func toMonitoredFlightResponse(f *entity.MonitoredFlight) monitoredFlightResponse {
	resp := monitoredFlightResponse{
		ID:                   f.ID,
		Airline:              f.Airline,
		DepartureAirport:     f.DepartureAirport,
		ArrivalAirport:       f.ArrivalAirport,
		DepartureDate:        f.DepartureDate,
		DepartureTime:        f.DepartureTime,
		IsRoundTrip:          f.IsRoundTrip(),
		Segments:             f.Segments,
		TicketClass:          f.TicketClass,
		CurrentPrice:         f.CurrentPrice,
		LastCheckedAt:        f.LastCheckedAt,
		CheckIntervalMinutes: f.CheckIntervalMinutes,
		IsActive:             f.IsActive,
		PNR:                  f.PNR,
		CreatedAt:            f.CreatedAt,
	}
	if f.Return != nil {
		resp.ReturnDate = f.Return.Date
		resp.ReturnTime = f.Return.Time
	}
	return resp
}

// List handles GET /api/v1/monitored-flights
func (h *MonitoredFlightHandler) List(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context(), agentID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]monitoredFlightResponse, 0, len(flights))
	for _, f := range flights {
		resp = append(resp, toMonitoredFlightResponse(f))
	}
	c.JSON(http.StatusOK, gin.H{"flights": resp})
}

// Create handles POST /api/v1/monitored-flights
func (h *MonitoredFlightHandler) Create(c *gin.Context) {
	var req createMonitoredFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	flight, err := h.service.Create(c.Request.Context(), agentID(c), usecase.CreateMonitoredFlightInput{
		Airline:              req.Airline,
		DepartureAirport:     req.DepartureAirport,
		ArrivalAirport:       req.ArrivalAirport,
		DepartureDate:        req.DepartureDate,
		DepartureTime:        req.DepartureTime,
		ReturnDate:           req.ReturnDate,
		ReturnTime:           req.ReturnTime,
		Segments:             req.Segments,
		TicketClass:          req.TicketClass,
		CheckIntervalMinutes: req.CheckIntervalMinutes,
		CurrentPrice:         req.CurrentPrice,
		PNR:                  req.PNR,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMonitoredFlightResponse(flight))
}

// Update handles PATCH /api/v1/monitored-flights/:id
func (h *MonitoredFlightHandler) Update(c *gin.Context) {
	var req updateMonitoredFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	flight, err := h.service.Update(c.Request.Context(), agentID(c), c.Param("id"), usecase.UpdateMonitoredFlightInput{
		IsActive:             req.IsActive,
		CheckIntervalMinutes: req.CheckIntervalMinutes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMonitoredFlightResponse(flight))
}
