package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/internal/interface/faresearch"
	"github.com/Sontome/web-b2b-thuhongtour/internal/usecase"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, faresearch.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, usecase.ErrSearchForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrInvalidMonitoredFlight):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
}
