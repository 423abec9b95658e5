package entity

// FlightLeg is one direction of an itinerary as returned by a fare endpoint
type FlightLeg struct {
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureDate    string `json:"departure_date"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time,omitempty"`
	Stops            int    `json:"stops"`
	TicketClass      string `json:"ticket_class,omitempty"`
}

// IsDirect reports whether the leg has no stops
func (l FlightLeg) IsDirect() bool {
	return l.Stops == 0
}

// FareOffer is a raw fare as received from a fare endpoint.
// Price is zero when the upstream amount could not be parsed.
type FareOffer struct {
	ID         string     `json:"id"`
	Airline    Airline    `json:"airline"`
	Carrier    string     `json:"carrier"`
	Price      int64      `json:"price"`
	Currency   string     `json:"currency"`
	Outbound   FlightLeg  `json:"departure"`
	Return     *FlightLeg `json:"return,omitempty"`
	BaggageTag string     `json:"baggage_type,omitempty"`
}

// IsRoundTrip is derived from the presence of a return leg only
func (o FareOffer) IsRoundTrip() bool {
	return o.Return != nil
}

// IsDirect reports whether every leg of the itinerary is direct
func (o FareOffer) IsDirect() bool {
	if !o.Outbound.IsDirect() {
		return false
	}
	return o.Return == nil || o.Return.IsDirect()
}

// DisplayedOffer is a raw offer with the agent's sell price applied
type DisplayedOffer struct {
	FareOffer
	SellPrice   int64    `json:"adjusted_price"`
	CarrierName string   `json:"carrier_name,omitempty"`
	Baggage     *Baggage `json:"baggage,omitempty"`
}

// FareQuery is a search request sent to a fare endpoint
type FareQuery struct {
	DepartureAirport string
	ArrivalAirport   string
	DepartureDate    string
	ReturnDate       string
	TicketClass      string
	Adults           int
	Children         int
	Infants          int
}

// IsRoundTrip is derived from the presence of a return date
func (q FareQuery) IsRoundTrip() bool {
	return q.ReturnDate != ""
}

// TimeConstraint restricts candidate offers to the booked departure and return times
type TimeConstraint struct {
	DepartureTime string
	ReturnTime    string
}
