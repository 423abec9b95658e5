// internal/domain/entity/monitored_flight.go
package entity

import (
	"fmt"
	"time"
)

// DefaultCheckIntervalMinutes applies to rows stored without a usable interval
const DefaultCheckIntervalMinutes = 5

// Ticket classes stored on monitored flights
const (
	TicketClassEconomy  = "economy"
	TicketClassBusiness = "business"
)

// ReturnConstraint is the return leg of a monitored round trip
type ReturnConstraint struct {
	Date string `json:"return_date"`
	Time string `json:"return_time,omitempty"`
}

// FlightSegment is one leg of a multi-segment booking
type FlightSegment struct {
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureDate    string `json:"departure_date"`
	DepartureTime    string `json:"departure_time,omitempty"`
	TicketClass      string `json:"ticket_class"`
}

// MonitoredFlight is an agent's request to track the fare of a held booking
type MonitoredFlight struct {
	ID                   string
	AgentID              string
	Airline              Airline
	DepartureAirport     string
	ArrivalAirport       string
	DepartureDate        string
	DepartureTime        string
	Return               *ReturnConstraint
	Segments             []FlightSegment
	TicketClass          string
	CurrentPrice         *int64
	LastCheckedAt        *time.Time
	CheckIntervalMinutes int
	IsActive             bool
	PNR                  string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsRoundTrip is derived from the presence of a return constraint
func (f *MonitoredFlight) IsRoundTrip() bool {
	return f.Return != nil && f.Return.Date != ""
}

// Interval returns the check interval, falling back to the default
func (f *MonitoredFlight) Interval() time.Duration {
	minutes := f.CheckIntervalMinutes
	if minutes <= 0 {
		minutes = DefaultCheckIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// IsDue applies the scheduled sweep eligibility rule at now
func (f *MonitoredFlight) IsDue(now time.Time) bool {
	if !f.IsActive {
		return false
	}
	if f.LastCheckedAt == nil {
		return true
	}
	return now.Sub(*f.LastCheckedAt) >= f.Interval()
}

// Route returns "DEP → ARR"
func (f *MonitoredFlight) Route() string {
	return fmt.Sprintf("%s → %s", f.DepartureAirport, f.ArrivalAirport)
}

// FareQuery builds the fare endpoint request for the flight.
// Segment bookings are checked on their first segment as a one-way fare.
func (f *MonitoredFlight) FareQuery() FareQuery {
	if len(f.Segments) > 0 {
		seg := f.Segments[0]
		return FareQuery{
			DepartureAirport: seg.DepartureAirport,
			ArrivalAirport:   seg.ArrivalAirport,
			DepartureDate:    seg.DepartureDate,
			TicketClass:      seg.TicketClass,
			Adults:           1,
		}
	}

	q := FareQuery{
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		DepartureDate:    f.DepartureDate,
		TicketClass:      f.TicketClass,
		Adults:           1,
	}
	if f.IsRoundTrip() {
		q.ReturnDate = f.Return.Date
	}
	return q
}

// TimeConstraint returns the booked times candidates must match
func (f *MonitoredFlight) TimeConstraint() TimeConstraint {
	if len(f.Segments) > 0 {
		return TimeConstraint{DepartureTime: f.Segments[0].DepartureTime}
	}

	tc := TimeConstraint{DepartureTime: f.DepartureTime}
	if f.IsRoundTrip() {
		tc.ReturnTime = f.Return.Time
	}
	return tc
}
