package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitoredFlight_IsDue(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name   string
		flight MonitoredFlight
		want   bool
	}{
		{name: "inactive never checked", flight: MonitoredFlight{IsActive: false}, want: false},
		{name: "active never checked", flight: MonitoredFlight{IsActive: true}, want: true},
		{name: "interval not elapsed", flight: MonitoredFlight{IsActive: true, CheckIntervalMinutes: 5, LastCheckedAt: ago(3 * time.Minute)}, want: false},
		{name: "interval exactly elapsed", flight: MonitoredFlight{IsActive: true, CheckIntervalMinutes: 5, LastCheckedAt: ago(5 * time.Minute)}, want: true},
		{name: "zero interval uses default", flight: MonitoredFlight{IsActive: true, LastCheckedAt: ago(4 * time.Minute)}, want: false},
		{name: "inactive and overdue", flight: MonitoredFlight{IsActive: false, CheckIntervalMinutes: 1, LastCheckedAt: ago(time.Hour)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flight.IsDue(now))
		})
	}
}

func TestMonitoredFlight_FareQuery(t *testing.T) {
	flight := MonitoredFlight{
		DepartureAirport: "HAN",
		ArrivalAirport:   "SGN",
		DepartureDate:    "2025-04-10",
		DepartureTime:    "08:00",
		TicketClass:      TicketClassEconomy,
		Return:           &ReturnConstraint{Date: "2025-04-15", Time: "18:30"},
	}

	q := flight.FareQuery()
	assert.Equal(t, "HAN", q.DepartureAirport)
	assert.Equal(t, "2025-04-15", q.ReturnDate)
	assert.Equal(t, 1, q.Adults)
	assert.True(t, q.IsRoundTrip())
	assert.Equal(t, TimeConstraint{DepartureTime: "08:00", ReturnTime: "18:30"}, flight.TimeConstraint())

	flight.Return = nil
	assert.False(t, flight.FareQuery().IsRoundTrip())
	assert.Equal(t, TimeConstraint{DepartureTime: "08:00"}, flight.TimeConstraint())
}

func TestMonitoredFlight_FareQueryUsesFirstSegment(t *testing.T) {
	flight := MonitoredFlight{
		Airline:          AirlineVNA,
		DepartureAirport: "HAN",
		ArrivalAirport:   "ICN",
		DepartureDate:    "2025-04-10",
		Return:           &ReturnConstraint{Date: "2025-04-20"},
		Segments: []FlightSegment{
			{DepartureAirport: "SGN", ArrivalAirport: "ICN", DepartureDate: "2025-04-11", DepartureTime: "23:40", TicketClass: TicketClassBusiness},
			{DepartureAirport: "ICN", ArrivalAirport: "SGN", DepartureDate: "2025-04-20", DepartureTime: "10:00"},
		},
	}

	q := flight.FareQuery()
	assert.Equal(t, FareQuery{
		DepartureAirport: "SGN",
		ArrivalAirport:   "ICN",
		DepartureDate:    "2025-04-11",
		TicketClass:      TicketClassBusiness,
		Adults:           1,
	}, q)
	assert.Equal(t, TimeConstraint{DepartureTime: "23:40"}, flight.TimeConstraint())
}

func TestNewPriceCheckResult(t *testing.T) {
	old := int64(1500000)
	flight := &MonitoredFlight{
		ID:               "f1",
		AgentID:          "a1",
		Airline:          AirlineVJ,
		DepartureAirport: "HAN",
		ArrivalAirport:   "SGN",
		CurrentPrice:     &old,
	}

	dropped := NewPriceCheckResult(flight, 1400000)
	assert.Equal(t, "HAN → SGN", dropped.Route)
	assert.True(t, dropped.PriceChanged)
	assert.True(t, dropped.PriceDecreased)
	assert.False(t, dropped.PriceIncreased)
	assert.Equal(t, int64(-100000), dropped.PriceDifference)

	same := NewPriceCheckResult(flight, 1500000)
	assert.False(t, same.PriceChanged)
	assert.Zero(t, same.PriceDifference)

	flight.CurrentPrice = nil
	first := NewPriceCheckResult(flight, 1400000)
	assert.Nil(t, first.OldPrice)
	assert.False(t, first.PriceChanged)
	assert.False(t, first.PriceDecreased)
	assert.False(t, first.PriceIncreased)
	assert.Zero(t, first.PriceDifference)
}

func TestClassifyAirline(t *testing.T) {
	assert.Equal(t, AirlineVJ, ClassifyAirline("vj"))
	assert.Equal(t, AirlineVNA, ClassifyAirline("VN"))
	assert.Equal(t, AirlineVNA, ClassifyAirline("VNA"))
	assert.Equal(t, AirlineOther, ClassifyAirline("KE"))
	assert.True(t, AirlineVJ.IsPrimary())
	assert.False(t, AirlineOther.IsPrimary())
}

func TestAgentProfile_AllowsOtherCarrier(t *testing.T) {
	p := &AgentProfile{PermCheckOther: true, ListOther: []string{"KE", "OZ"}}
	assert.True(t, p.AllowsOtherCarrier("KE"))
	assert.False(t, p.AllowsOtherCarrier("7C"))

	p.PermCheckOther = false
	assert.False(t, p.AllowsOtherCarrier("KE"))
}
