package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/internal/interface/faresearch"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

var sweepNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestPriceMonitor(repo *MockMonitoredFlightRepository, clients ...*MockFareSearch) *PriceMonitor {
	router := mapRouter{}
	for _, c := range clients {
		router[c.airline] = c
	}
	m := NewPriceMonitor(repo, router, newTestMetrics(), logger.NewNop(), 4, time.Second)
	m.now = func() time.Time { return sweepNow }
	return m
}

func price(v int64) *int64 { return &v }

func minutesAgo(n int) *time.Time {
	t := sweepNow.Add(-time.Duration(n) * time.Minute)
	return &t
}

func vjFlight(id string) *entity.MonitoredFlight {
	return &entity.MonitoredFlight{
		ID:                   id,
		AgentID:              "agent-1",
		Airline:              entity.AirlineVJ,
		DepartureAirport:     "HAN",
		ArrivalAirport:       "SGN",
		DepartureDate:        "2025-04-10",
		DepartureTime:        "08:00",
		CheckIntervalMinutes: 5,
		IsActive:             true,
	}
}

func offer(dep string, p int64) entity.FareOffer {
	return entity.FareOffer{Airline: entity.AirlineVJ, Price: p, Outbound: entity.FlightLeg{DepartureTime: dep}}
}

func TestPriceMonitor_ScheduledSweepStoresCheapestMatchingFare(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vj := &MockFareSearch{airline: entity.AirlineVJ}
	flight := vjFlight("f1")

	repo.On("FindActive", mock.Anything).Return([]*entity.MonitoredFlight{flight}, nil)
	vj.On("Search", mock.Anything, flight.FareQuery()).Return([]entity.FareOffer{
		offer("08:00", 500000),
		offer("10:00", 400000),
		offer("08:00", 450000),
	}, nil)
	repo.On("UpdatePrice", mock.Anything, "f1", int64(450000), sweepNow).Return(nil)

	result, err := newTestPriceMonitor(repo, vj).RunSweep(context.Background(), "")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Checked)
	require.Len(t, result.Results, 1)
	r := result.Results[0]
	assert.Equal(t, int64(450000), r.NewPrice)
	assert.Nil(t, r.OldPrice)
	assert.False(t, r.PriceChanged)
	assert.Zero(t, r.PriceDifference)
	assert.Equal(t, "HAN → SGN", r.Route)
	repo.AssertExpectations(t)
	vj.AssertExpectations(t)
}

func TestPriceMonitor_ScheduledSweepAppliesEligibility(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vj := &MockFareSearch{airline: entity.AirlineVJ}

	inactive := vjFlight("inactive")
	inactive.IsActive = false
	recent := vjFlight("recent")
	recent.LastCheckedAt = minutesAgo(3)
	overdue := vjFlight("overdue")
	overdue.LastCheckedAt = minutesAgo(5)
	overdue.CurrentPrice = price(500000)

	repo.On("FindActive", mock.Anything).Return([]*entity.MonitoredFlight{inactive, recent, overdue}, nil)
	vj.On("Search", mock.Anything, mock.Anything).Return([]entity.FareOffer{offer("08:00", 480000)}, nil).Once()
	repo.On("UpdatePrice", mock.Anything, "overdue", int64(480000), sweepNow).Return(nil).Once()

	result, err := newTestPriceMonitor(repo, vj).RunSweep(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	r := result.Results[0]
	assert.Equal(t, "overdue", r.FlightID)
	assert.True(t, r.PriceChanged)
	assert.True(t, r.PriceDecreased)
	assert.Equal(t, int64(-20000), r.PriceDifference)
	repo.AssertNotCalled(t, "UpdatePrice", mock.Anything, "inactive", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdatePrice", mock.Anything, "recent", mock.Anything, mock.Anything)
	vj.AssertNumberOfCalls(t, "Search", 1)
}

func TestPriceMonitor_ManualSweepIgnoresEligibility(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vj := &MockFareSearch{airline: entity.AirlineVJ}

	flight := vjFlight("f1")
	flight.LastCheckedAt = minutesAgo(3)
	flight.IsActive = false
	flight.CurrentPrice = price(450000)

	repo.On("FindByID", mock.Anything, "f1").Return(flight, nil)
	vj.On("Search", mock.Anything, mock.Anything).Return([]entity.FareOffer{offer("08:00", 470000)}, nil)
	repo.On("UpdatePrice", mock.Anything, "f1", int64(470000), sweepNow).Return(nil)

	result, err := newTestPriceMonitor(repo, vj).RunSweep(context.Background(), "f1")

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].PriceIncreased)
	assert.Equal(t, int64(20000), result.Results[0].PriceDifference)
	repo.AssertNotCalled(t, "FindActive", mock.Anything)
}

func TestPriceMonitor_ManualSweepUnknownFlight(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	result, err := newTestPriceMonitor(repo).RunSweep(context.Background(), "missing")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, result.Checked)
	assert.Empty(t, result.Results)
}

func TestPriceMonitor_LoadFailureIsFatal(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	repo.On("FindActive", mock.Anything).Return(nil, errors.New("connection refused"))

	result, err := newTestPriceMonitor(repo).RunSweep(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestPriceMonitor_SkipsFlightsWithoutPrice(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vj := &MockFareSearch{airline: entity.AirlineVJ}

	unavailable := vjFlight("unavailable")
	unavailable.DepartureAirport = "HPH"
	noMatch := vjFlight("no-match")
	noMatch.DepartureAirport = "DAD"
	empty := vjFlight("empty")
	empty.DepartureAirport = "CXR"
	other := vjFlight("other")
	other.Airline = entity.AirlineOther

	repo.On("FindActive", mock.Anything).Return([]*entity.MonitoredFlight{unavailable, noMatch, empty, other}, nil)
	vj.On("Search", mock.Anything, unavailable.FareQuery()).Return(nil, faresearch.ErrUnavailable)
	vj.On("Search", mock.Anything, noMatch.FareQuery()).Return([]entity.FareOffer{offer("10:00", 400000)}, nil)
	vj.On("Search", mock.Anything, empty.FareQuery()).Return([]entity.FareOffer{}, nil)

	result, err := newTestPriceMonitor(repo, vj).RunSweep(context.Background(), "")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Results)
	repo.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPriceMonitor_WriteFailureOmitsResult(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vj := &MockFareSearch{airline: entity.AirlineVJ}

	a := vjFlight("a")
	b := vjFlight("b")
	b.DepartureAirport = "DAD"

	repo.On("FindActive", mock.Anything).Return([]*entity.MonitoredFlight{a, b}, nil)
	vj.On("Search", mock.Anything, mock.Anything).Return([]entity.FareOffer{offer("08:00", 300000)}, nil)
	repo.On("UpdatePrice", mock.Anything, "a", int64(300000), sweepNow).Return(errors.New("deadlock"))
	repo.On("UpdatePrice", mock.Anything, "b", int64(300000), sweepNow).Return(nil)

	result, err := newTestPriceMonitor(repo, vj).RunSweep(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "b", result.Results[0].FlightID)
	assert.Equal(t, 1, result.Checked)
}

func TestPriceMonitor_PanicIsIsolated(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vj := &MockFareSearch{airline: entity.AirlineVJ}

	boom := vjFlight("boom")
	boom.DepartureAirport = "VCA"
	ok := vjFlight("ok")

	repo.On("FindActive", mock.Anything).Return([]*entity.MonitoredFlight{boom, ok}, nil)
	vj.On("Search", mock.Anything, boom.FareQuery()).Run(func(args mock.Arguments) {
		panic("malformed payload")
	}).Return(nil, nil)
	vj.On("Search", mock.Anything, ok.FareQuery()).Return([]entity.FareOffer{offer("08:00", 350000)}, nil)
	repo.On("UpdatePrice", mock.Anything, "ok", int64(350000), sweepNow).Return(nil)

	result, err := newTestPriceMonitor(repo, vj).RunSweep(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "ok", result.Results[0].FlightID)
}

func TestPriceMonitor_ResultsKeepRecordOrder(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vj := &MockFareSearch{airline: entity.AirlineVJ}

	flights := []*entity.MonitoredFlight{}
	for _, id := range []string{"f1", "f2", "f3", "f4", "f5", "f6"} {
		f := vjFlight(id)
		flights = append(flights, f)
		repo.On("UpdatePrice", mock.Anything, id, int64(300000), sweepNow).Return(nil)
	}
	repo.On("FindActive", mock.Anything).Return(flights, nil)
	vj.On("Search", mock.Anything, mock.Anything).Return([]entity.FareOffer{offer("08:00", 300000)}, nil)

	result, err := newTestPriceMonitor(repo, vj).RunSweep(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, result.Results, 6)
	for i, r := range result.Results {
		assert.Equal(t, flights[i].ID, r.FlightID)
	}
}

func TestPriceMonitor_VNASegmentUsesFirstSegment(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vna := &MockFareSearch{airline: entity.AirlineVNA}

	flight := &entity.MonitoredFlight{
		ID:               "vna-1",
		Airline:          entity.AirlineVNA,
		DepartureAirport: "SGN",
		ArrivalAirport:   "ICN",
		DepartureDate:    "2025-04-11",
		IsActive:         true,
		Segments: []entity.FlightSegment{
			{DepartureAirport: "SGN", ArrivalAirport: "ICN", DepartureDate: "2025-04-11", DepartureTime: "23:40", TicketClass: entity.TicketClassBusiness},
		},
	}
	expected := entity.FareQuery{
		DepartureAirport: "SGN",
		ArrivalAirport:   "ICN",
		DepartureDate:    "2025-04-11",
		TicketClass:      entity.TicketClassBusiness,
		Adults:           1,
	}

	repo.On("FindByID", mock.Anything, "vna-1").Return(flight, nil)
	vna.On("Search", mock.Anything, expected).Return([]entity.FareOffer{
		{Airline: entity.AirlineVNA, Price: 2100000, Outbound: entity.FlightLeg{DepartureTime: "23:40"}},
		{Airline: entity.AirlineVNA, Price: 1900000, Outbound: entity.FlightLeg{DepartureTime: "10:05"}},
	}, nil)
	repo.On("UpdatePrice", mock.Anything, "vna-1", int64(2100000), sweepNow).Return(nil)

	result, err := newTestPriceMonitor(repo, vna).RunSweep(context.Background(), "vna-1")

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, int64(2100000), result.Results[0].NewPrice)
	vna.AssertExpectations(t)
}

func TestPriceMonitor_RoundTripMatchesBookedReturn(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vj := &MockFareSearch{airline: entity.AirlineVJ}

	flight := vjFlight("rt")
	flight.Return = &entity.ReturnConstraint{Date: "2025-04-15", Time: "18:00"}

	withReturn := func(dep, ret string, p int64) entity.FareOffer {
		o := offer(dep, p)
		o.Return = &entity.FlightLeg{DepartureTime: ret}
		return o
	}

	repo.On("FindActive", mock.Anything).Return([]*entity.MonitoredFlight{flight}, nil)
	vj.On("Search", mock.Anything, flight.FareQuery()).Return([]entity.FareOffer{
		offer("08:00", 300000),
		withReturn("08:00", "20:00", 500000),
		withReturn("08:00", "18:00", 900000),
	}, nil)
	repo.On("UpdatePrice", mock.Anything, "rt", int64(900000), sweepNow).Return(nil)

	result, err := newTestPriceMonitor(repo, vj).RunSweep(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, int64(900000), result.Results[0].NewPrice)
	repo.AssertExpectations(t)
}

func TestPriceMonitor_VNAIgnoresPartnerCarriers(t *testing.T) {
	repo := new(MockMonitoredFlightRepository)
	vna := &MockFareSearch{airline: entity.AirlineVNA}

	flight := &entity.MonitoredFlight{
		ID:               "vna-2",
		Airline:          entity.AirlineVNA,
		DepartureAirport: "HAN",
		ArrivalAirport:   "ICN",
		DepartureDate:    "2025-04-11",
		DepartureTime:    "23:40",
		IsActive:         true,
	}

	repo.On("FindByID", mock.Anything, "vna-2").Return(flight, nil)
	vna.On("Search", mock.Anything, flight.FareQuery()).Return([]entity.FareOffer{
		{Airline: entity.AirlineOther, Carrier: "KE", Price: 1500000, Outbound: entity.FlightLeg{DepartureTime: "23:40"}},
		{Airline: entity.AirlineVNA, Carrier: "VN", Price: 2100000, Outbound: entity.FlightLeg{DepartureTime: "23:40"}},
	}, nil)
	repo.On("UpdatePrice", mock.Anything, "vna-2", int64(2100000), sweepNow).Return(nil)

	result, err := newTestPriceMonitor(repo, vna).RunSweep(context.Background(), "vna-2")

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, int64(2100000), result.Results[0].NewPrice)
}
