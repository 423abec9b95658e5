package entity

// PriceCheckResult reports one successful monitored flight check
type PriceCheckResult struct {
	FlightID        string  `json:"flight_id"`
	AgentID         string  `json:"user_id"`
	Airline         Airline `json:"airline"`
	Route           string  `json:"route"`
	PNR             string  `json:"pnr,omitempty"`
	OldPrice        *int64  `json:"old_price"`
	NewPrice        int64   `json:"new_price"`
	PriceChanged    bool    `json:"price_changed"`
	PriceDecreased  bool    `json:"price_decreased"`
	PriceIncreased  bool    `json:"price_increased"`
	PriceDifference int64   `json:"price_difference"`
}

// NewPriceCheckResult compares a fresh price against the stored one
func NewPriceCheckResult(flight *MonitoredFlight, newPrice int64) PriceCheckResult {
	result := PriceCheckResult{
		FlightID: flight.ID,
		AgentID:  flight.AgentID,
		Airline:  flight.Airline,
		Route:    flight.Route(),
		PNR:      flight.PNR,
		NewPrice: newPrice,
	}

	if flight.CurrentPrice != nil {
		old := *flight.CurrentPrice
		result.OldPrice = &old
		result.PriceChanged = old != newPrice
		result.PriceDecreased = newPrice < old
		result.PriceIncreased = newPrice > old
		result.PriceDifference = newPrice - old
	}

	return result
}

// SweepResult is the response of one fare monitor sweep
type SweepResult struct {
	Success bool               `json:"success"`
	Checked int                `json:"checked"`
	Results []PriceCheckResult `json:"results"`
}
