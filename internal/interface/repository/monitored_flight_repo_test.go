package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
)

func newSQLiteMonitoredFlightRepository(t *testing.T) (repository.MonitoredFlightRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&MonitoredFlights{}))

	return NewGormMonitoredFlightRepository(db), db
}

func TestGormMonitoredFlightRepository_CreateAndFind(t *testing.T) {
	repo, _ := newSQLiteMonitoredFlightRepository(t)
	ctx := context.Background()

	flight := &entity.MonitoredFlight{
		AgentID:          "agent-1",
		Airline:          entity.AirlineVJ,
		DepartureAirport: "HAN",
		ArrivalAirport:   "SGN",
		DepartureDate:    "2025-04-10",
		DepartureTime:    "08:00",
		Return:           &entity.ReturnConstraint{Date: "2025-04-15", Time: "18:30"},
		TicketClass:      entity.TicketClassEconomy,
		IsActive:         true,
		PNR:              "ABC123",
	}
	require.NoError(t, repo.Create(ctx, flight))
	require.NotEmpty(t, flight.ID)

	got, err := repo.FindByID(ctx, flight.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.AirlineVJ, got.Airline)
	assert.Equal(t, "2025-04-10", got.DepartureDate)
	assert.Equal(t, "08:00", got.DepartureTime)
	require.NotNil(t, got.Return)
	assert.Equal(t, "2025-04-15", got.Return.Date)
	assert.Equal(t, "18:30", got.Return.Time)
	assert.True(t, got.IsRoundTrip())
	assert.Equal(t, entity.DefaultCheckIntervalMinutes, got.CheckIntervalMinutes)
	assert.Nil(t, got.CurrentPrice)
	assert.Nil(t, got.LastCheckedAt)
	assert.Empty(t, got.Segments)
	assert.Equal(t, "ABC123", got.PNR)
}

func TestGormMonitoredFlightRepository_Segments(t *testing.T) {
	repo, _ := newSQLiteMonitoredFlightRepository(t)
	ctx := context.Background()

	flight := &entity.MonitoredFlight{
		AgentID:          "agent-1",
		Airline:          entity.AirlineVNA,
		DepartureAirport: "SGN",
		ArrivalAirport:   "ICN",
		DepartureDate:    "2025-04-11",
		IsActive:         true,
		Segments: []entity.FlightSegment{
			{DepartureAirport: "SGN", ArrivalAirport: "ICN", DepartureDate: "2025-04-11", DepartureTime: "23:40", TicketClass: entity.TicketClassBusiness},
		},
	}
	require.NoError(t, repo.Create(ctx, flight))

	got, err := repo.FindByID(ctx, flight.ID)
	require.NoError(t, err)

	require.Len(t, got.Segments, 1)
	assert.Equal(t, "23:40", got.Segments[0].DepartureTime)
	assert.Equal(t, entity.TicketClassBusiness, got.Segments[0].TicketClass)
	assert.False(t, got.IsRoundTrip())
}

func TestGormMonitoredFlightRepository_FindActiveAndByAgent(t *testing.T) {
	repo, _ := newSQLiteMonitoredFlightRepository(t)
	ctx := context.Background()

	create := func(agent string, active bool) *entity.MonitoredFlight {
		f := &entity.MonitoredFlight{
			AgentID:          agent,
			Airline:          entity.AirlineVJ,
			DepartureAirport: "HAN",
			ArrivalAirport:   "DAD",
			DepartureDate:    "2025-05-01",
			IsActive:         active,
		}
		require.NoError(t, repo.Create(ctx, f))
		return f
	}
	first := create("agent-1", true)
	create("agent-1", false)
	third := create("agent-2", true)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, f := range active {
		ids = append(ids, f.ID)
	}
	assert.ElementsMatch(t, []string{first.ID, third.ID}, ids)

	mine, err := repo.FindByAgent(ctx, "agent-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestGormMonitoredFlightRepository_UpdatePrice(t *testing.T) {
	repo, _ := newSQLiteMonitoredFlightRepository(t)
	ctx := context.Background()

	flight := &entity.MonitoredFlight{
		AgentID:          "agent-1",
		Airline:          entity.AirlineVJ,
		DepartureAirport: "HAN",
		ArrivalAirport:   "SGN",
		DepartureDate:    "2025-04-10",
		IsActive:         true,
	}
	require.NoError(t, repo.Create(ctx, flight))

	checkedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdatePrice(ctx, flight.ID, 450000, checkedAt))

	got, err := repo.FindByID(ctx, flight.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentPrice)
	assert.Equal(t, int64(450000), *got.CurrentPrice)
	require.NotNil(t, got.LastCheckedAt)
	assert.True(t, checkedAt.Equal(*got.LastCheckedAt))

	err = repo.UpdatePrice(ctx, "missing", 1, checkedAt)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGormMonitoredFlightRepository_UpdateSettings(t *testing.T) {
	repo, _ := newSQLiteMonitoredFlightRepository(t)
	ctx := context.Background()

	flight := &entity.MonitoredFlight{
		AgentID:          "agent-1",
		Airline:          entity.AirlineVJ,
		DepartureAirport: "HAN",
		ArrivalAirport:   "SGN",
		DepartureDate:    "2025-04-10",
		IsActive:         true,
	}
	require.NoError(t, repo.Create(ctx, flight))

	inactive := false
	interval := 15
	require.NoError(t, repo.UpdateSettings(ctx, flight.ID, &inactive, &interval))

	got, err := repo.FindByID(ctx, flight.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 15, got.CheckIntervalMinutes)

	assert.NoError(t, repo.UpdateSettings(ctx, flight.ID, nil, nil))
	assert.ErrorIs(t, repo.UpdateSettings(ctx, "missing", &inactive, nil), repository.ErrNotFound)
}

func TestGormMonitoredFlightRepository_FindByIDNotFound(t *testing.T) {
	repo, _ := newSQLiteMonitoredFlightRepository(t)

	_, err := repo.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGormMonitoredFlightRepository_NullIntervalReadsAsDefault(t *testing.T) {
	repo, db := newSQLiteMonitoredFlightRepository(t)
	ctx := context.Background()

	flight := &entity.MonitoredFlight{
		AgentID:          "agent-1",
		Airline:          entity.AirlineVJ,
		DepartureAirport: "HAN",
		ArrivalAirport:   "SGN",
		DepartureDate:    "2025-04-10",
		IsActive:         true,
	}
	require.NoError(t, repo.Create(ctx, flight))
	require.NoError(t, db.Exec("UPDATE monitored_flights SET check_interval_minutes = NULL WHERE id = ?", flight.ID).Error)

	got, err := repo.FindByID(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCheckIntervalMinutes, got.CheckIntervalMinutes)
}
