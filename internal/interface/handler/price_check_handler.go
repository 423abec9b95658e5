package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

// Sweeper runs one fare monitor sweep
type Sweeper interface {
	RunSweep(ctx context.Context, flightID string) (*entity.SweepResult, error)
}

// PriceCheckHandler exposes the fare monitor sweep
type PriceCheckHandler struct {
	sweeper Sweeper
	logger  logger.Logger
}

// NewPriceCheckHandler creates a new price check handler
func NewPriceCheckHandler(sweeper Sweeper, logger logger.Logger) *PriceCheckHandler {
	return &PriceCheckHandler{sweeper: sweeper, logger: logger}
}

type checkPricesRequest struct {
	FlightID string `json:"flightId"`
}

// CheckFlightPrices runs a sweep. A missing or malformed body runs a
// scheduled style sweep over every due flight.
func (h *PriceCheckHandler) CheckFlightPrices(c *gin.Context) {
	var req checkPricesRequest
	if body, err := io.ReadAll(c.Request.Body); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.logger.Debug("Ignoring malformed price check body", "error", err)
			req = checkPricesRequest{}
		}
	}

	result, err := h.sweeper.RunSweep(c.Request.Context(), req.FlightID)
	if err != nil {
		h.logger.Error("Price check failed", "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
