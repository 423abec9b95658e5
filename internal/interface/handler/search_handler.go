package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/pricing"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/internal/usecase"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/utils"
)

// FlightSearcher runs an agent fare search
type FlightSearcher interface {
	Search(ctx context.Context, agentID string, input usecase.SearchInput) (*usecase.SearchOutput, error)
}

// SearchHandler exposes fare search and price quotes to agents
type SearchHandler struct {
	searcher    FlightSearcher
	profileRepo repository.ProfileRepository
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher FlightSearcher, profileRepo repository.ProfileRepository) *SearchHandler {
	return &SearchHandler{searcher: searcher, profileRepo: profileRepo}
}

type searchRequest struct {
	From          string   `json:"from" binding:"required,airport"`
	To            string   `json:"to" binding:"required,airport"`
	DepartureDate string   `json:"departure_date" binding:"required,date"`
	ReturnDate    string   `json:"return_date" binding:"omitempty,date"`
	TicketClass   string   `json:"ticket_class" binding:"omitempty,oneof=economy business"`
	Adults        int      `json:"adults" binding:"omitempty,min=1,max=9"`
	Children      int      `json:"children" binding:"min=0,max=9"`
	Infants       int      `json:"infants" binding:"min=0,max=9"`
	Airlines      []string `json:"airlines" binding:"omitempty,dive,oneof=VJ VNA"`
	DirectOnly    bool     `json:"direct_only"`
	Show2pc       bool     `json:"show_2pc"`
	CheapestOnly  bool     `json:"cheapest_only"`
}

func (r searchRequest) toInput() usecase.SearchInput {
	departure, _ := utils.NormalizeDate(r.DepartureDate)
	var ret string
	if r.ReturnDate != "" {
		ret, _ = utils.NormalizeDate(r.ReturnDate)
	}

	adults := r.Adults
	if adults < 1 {
		adults = 1
	}

	airlines := make([]entity.Airline, 0, len(r.Airlines))
	for _, a := range r.Airlines {
		airlines = append(airlines, entity.Airline(a))
	}

	return usecase.SearchInput{
		Query: entity.FareQuery{
			DepartureAirport: strings.ToUpper(r.From),
			ArrivalAirport:   strings.ToUpper(r.To),
			DepartureDate:    departure,
			ReturnDate:       ret,
			TicketClass:      r.TicketClass,
			Adults:           adults,
			Children:         r.Children,
			Infants:          r.Infants,
		},
		Filters: usecase.SearchFilters{
			Airlines:     airlines,
			DirectOnly:   r.DirectOnly,
			Show2pc:      r.Show2pc,
			CheapestOnly: r.CheapestOnly,
		},
	}
}

// Search handles POST /api/v1/flights/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	output, err := h.searcher.Search(c.Request.Context(), agentID(c), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

type quoteRequest struct {
	BasePrice   *int64 `json:"base_price" binding:"required,min=0"`
	Airline     string `json:"airline" binding:"required,oneof=VJ VNA OTHER"`
	IsRoundTrip bool   `json:"is_round_trip"`
}

type quoteResponse struct {
	BasePrice   int64          `json:"base_price"`
	Airline     entity.Airline `json:"airline"`
	IsRoundTrip bool           `json:"is_round_trip"`
	SellPrice   int64          `json:"adjusted_price"`
}

// Quote handles POST /api/v1/pricing/quote
func (h *SearchHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.profileRepo.FindByID(c.Request.Context(), agentID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	airline := entity.Airline(req.Airline)
	c.JSON(http.StatusOK, quoteResponse{
		BasePrice:   *req.BasePrice,
		Airline:     airline,
		IsRoundTrip: req.IsRoundTrip,
		SellPrice:   pricing.ComputeSellPrice(*req.BasePrice, airline, req.IsRoundTrip, profile.Pricing),
	})
}
