// Package faresearch talks to the airline fare endpoints
package faresearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

// ErrUnavailable is returned when an endpoint fails or answers with an unusable body
var ErrUnavailable = errors.New("fare endpoint unavailable")

// DefaultCurrency is assumed when an offer carries no currency
const DefaultCurrency = "KRW"

// Client searches one airline fare endpoint
type Client struct {
	baseURL    string
	config     AirlineConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a fare search client for one airline
func NewClient(baseURL string, timeout time.Duration, config AirlineConfig, logger logger.Logger) repository.FareSearchRepository {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("airline", string(config.Airline)),
	}
}

type envelope struct {
	StatusCode json.RawMessage  `json:"status_code"`
	Body       []map[string]any `json:"body"`
}

// Airline returns the airline served by the endpoint
func (c *Client) Airline() entity.Airline {
	return c.config.Airline
}

// Search posts the query and normalizes every returned item into an offer
func (c *Client) Search(ctx context.Context, query entity.FareQuery) ([]entity.FareOffer, error) {
	jsonData, err := json.Marshal(c.config.BuildRequest(query))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fare request: %w", err)
	}

	url := c.baseURL + c.config.Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response envelope
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	if code := statusCode(response.StatusCode); code != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream status_code %d", ErrUnavailable, code)
	}

	offers := make([]entity.FareOffer, 0, len(response.Body))
	for i, item := range response.Body {
		offers = append(offers, c.toOffer(i, item))
	}

	c.logger.Debug("Fare search completed",
		"route", query.DepartureAirport+"-"+query.ArrivalAirport,
		"date", query.DepartureDate,
		"offers", len(offers))

	return offers, nil
}

func (c *Client) toOffer(index int, item map[string]any) entity.FareOffer {
	f := c.config.Fields

	offer := entity.FareOffer{
		ID:         lookupString(item, f.ID),
		Airline:    c.config.Airline,
		Carrier:    strings.ToUpper(lookupString(item, f.Carrier)),
		Price:      parseAmount(lookup(item, f.Price)),
		Currency:   lookupString(item, f.Currency),
		BaggageTag: lookupString(item, f.BaggageTag),
	}
	if offer.ID == "" {
		offer.ID = fmt.Sprintf("%s-%d", strings.ToLower(string(c.config.Airline)), index+1)
	}
	if offer.Currency == "" {
		offer.Currency = DefaultCurrency
	}

	if outbound, ok := lookup(item, f.OutboundLeg).(map[string]any); ok {
		offer.Outbound = c.toLeg(outbound)
	}
	if ret, ok := lookup(item, f.ReturnLeg).(map[string]any); ok && len(ret) > 0 {
		leg := c.toLeg(ret)
		if leg.DepartureTime != "" || leg.DepartureDate != "" {
			offer.Return = &leg
		}
	}

	if c.config.ClassifyCarriers {
		if offer.Carrier == "" {
			offer.Carrier = string(c.config.Airline)
		}
		offer.Airline = entity.ClassifyAirline(offer.Carrier)
	}
	if offer.Carrier == "" {
		offer.Carrier = string(offer.Airline)
	}

	return offer
}

func (c *Client) toLeg(leg map[string]any) entity.FlightLeg {
	f := c.config.Fields
	return entity.FlightLeg{
		DepartureAirport: lookupString(leg, f.DepartureAirport),
		ArrivalAirport:   lookupString(leg, f.ArrivalAirport),
		DepartureDate:    lookupString(leg, f.DepartureDate),
		DepartureTime:    lookupString(leg, f.DepartureTime),
		ArrivalTime:      lookupString(leg, f.ArrivalTime),
		Stops:            int(parseAmount(lookup(leg, f.Stops))),
		TicketClass:      lookupString(leg, f.TicketClass),
	}
}

// lookup follows a dotted path through nested objects
func lookup(item map[string]any, path string) any {
	if path == "" {
		return nil
	}

	var current any = item
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

func lookupString(item map[string]any, path string) string {
	switch v := lookup(item, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// parseAmount reads a number or a numeric string with thousand separators.
// A single "." or "," not followed by exactly three digits is a decimal
// point and the fraction is dropped. Anything else is 0.
func parseAmount(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), " ", "")
		s = dropFraction(s, ".")
		s = dropFraction(s, ",")

		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			if r == ',' || r == '.' {
				return -1
			}
			return 'x'
		}, s)
		if i := strings.IndexByte(digits, 'x'); i >= 0 {
			digits = digits[:i]
		}
		amount, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0
		}
		return amount
	default:
		return 0
	}
}

func dropFraction(s, sep string) string {
	if strings.Count(s, sep) != 1 {
		return s
	}
	i := strings.Index(s, sep)
	tail := s[i+1:]
	group := 0
	for group < len(tail) && tail[group] >= '0' && tail[group] <= '9' {
		group++
	}
	if group == 3 {
		return s
	}
	return s[:i]
}

func statusCode(raw json.RawMessage) int {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}
