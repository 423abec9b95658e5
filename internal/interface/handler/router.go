package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	PriceCheck      *PriceCheckHandler
	Search          *SearchHandler
	MonitoredFlight *MonitoredFlightHandler
}

// NewRouter builds the gin engine with every route and wraps it with CORS
func NewRouter(h Handlers, gatherer prometheus.Gatherer, log logger.Logger) http.Handler {
	SetupValidator()

	r := gin.New()
	r.Use(Recovery(log), RequestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.POST("/functions/v1/check-flight-prices", h.PriceCheck.CheckFlightPrices)

	api := r.Group("/api/v1", RequireAgent())
	api.POST("/flights/search", h.Search.Search)
	api.POST("/pricing/quote", h.Search.Quote)
	api.GET("/monitored-flights", h.MonitoredFlight.List)
	api.POST("/monitored-flights", h.MonitoredFlight.Create)
	api.PATCH("/monitored-flights/:id", h.MonitoredFlight.Update)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	})

	return corsHandler.Handler(r)
}
