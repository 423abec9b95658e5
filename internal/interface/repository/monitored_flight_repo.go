package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/utils"
)

// GormMonitoredFlightRepository implements the MonitoredFlightRepository interface
type GormMonitoredFlightRepository struct {
	db *gorm.DB
}

// NewGormMonitoredFlightRepository creates a new GORM monitored flight repository
func NewGormMonitoredFlightRepository(db *gorm.DB) repository.MonitoredFlightRepository {
	return &GormMonitoredFlightRepository{
		db: db,
	}
}

// MonitoredFlights GORM model for database mapping
type MonitoredFlights struct {
	ID                   string                                      `gorm:"column:id;primaryKey;type:uuid"`
	UserID               string                                      `gorm:"column:user_id;index"`
	Airline              string                                      `gorm:"column:airline"`
	DepartureAirport     string                                      `gorm:"column:departure_airport"`
	ArrivalAirport       string                                      `gorm:"column:arrival_airport"`
	DepartureDate        time.Time                                   `gorm:"column:departure_date;type:date"`
	DepartureTime        *string                                     `gorm:"column:departure_time"`
	IsRoundTrip          *bool                                       `gorm:"column:is_round_trip"`
	ReturnDate           *time.Time                                  `gorm:"column:return_date;type:date"`
	ReturnTime           *string                                     `gorm:"column:return_time"`
	Segments             *datatypes.JSONType[[]entity.FlightSegment] `gorm:"column:segments"`
	TicketClass          *string                                     `gorm:"column:ticket_class"`
	CurrentPrice         *int64                                      `gorm:"column:current_price"`
	LastCheckedAt        *time.Time                                  `gorm:"column:last_checked_at"`
	CheckIntervalMinutes *int                                        `gorm:"column:check_interval_minutes"`
	IsActive             *bool                                       `gorm:"column:is_active;index"`
	PNR                  *string                                     `gorm:"column:pnr"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName overrides the default table name
func (MonitoredFlights) TableName() string {
	return "monitored_flights"
}

// BeforeCreate assigns an id to new rows
func (m *MonitoredFlights) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// FindByID finds a monitored flight by id regardless of its state
func (r *GormMonitoredFlightRepository) FindByID(ctx context.Context, id string) (*entity.MonitoredFlight, error) {
	// ids are uuids, anything else cannot exist
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	var flight MonitoredFlights
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&flight)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load monitored flight %s: %w", id, result.Error)
	}

	return flight.toEntity(), nil
}

// FindActive returns every active monitored flight in creation order
func (r *GormMonitoredFlightRepository) FindActive(ctx context.Context) ([]*entity.MonitoredFlight, error) {
	var rows []MonitoredFlights
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&rows)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to load active monitored flights: %w", result.Error)
	}

	return toEntities(rows), nil
}

// FindByAgent returns the monitored flights of one agent, newest first
func (r *GormMonitoredFlightRepository) FindByAgent(ctx context.Context, agentID string) ([]*entity.MonitoredFlight, error) {
	var rows []MonitoredFlights
	result := r.db.WithContext(ctx).
		Where("user_id = ?", agentID).
		Order("created_at DESC").
		Find(&rows)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to load monitored flights of agent %s: %w", agentID, result.Error)
	}

	return toEntities(rows), nil
}

// Create inserts a monitored flight and fills its generated fields
func (r *GormMonitoredFlightRepository) Create(ctx context.Context, flight *entity.MonitoredFlight) error {
	row, err := fromEntity(flight)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create monitored flight: %w", err)
	}

	flight.ID = row.ID
	flight.CreatedAt = row.CreatedAt
	flight.UpdatedAt = row.UpdatedAt
	return nil
}

// UpdatePrice stores a fresh price and the check timestamp
func (r *GormMonitoredFlightRepository) UpdatePrice(ctx context.Context, id string, price int64, checkedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&MonitoredFlights{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_price":   price,
			"last_checked_at": checkedAt,
			"updated_at":      checkedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update price of monitored flight %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateSettings changes the active flag and/or the check interval
func (r *GormMonitoredFlightRepository) UpdateSettings(ctx context.Context, id string, isActive *bool, intervalMinutes *int) error {
	updates := map[string]interface{}{}
	if isActive != nil {
		updates["is_active"] = *isActive
	}
	if intervalMinutes != nil {
		updates["check_interval_minutes"] = *intervalMinutes
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&MonitoredFlights{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update monitored flight %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func toEntities(rows []MonitoredFlights) []*entity.MonitoredFlight {
	flights := make([]*entity.MonitoredFlight, 0, len(rows))
	for i := range rows {
		flights = append(flights, rows[i].toEntity())
	}
	return flights
}

func (m MonitoredFlights) toEntity() *entity.MonitoredFlight {
	flight := &entity.MonitoredFlight{
		ID:                   m.ID,
		AgentID:              m.UserID,
		Airline:              entity.ClassifyAirline(m.Airline),
		DepartureAirport:     m.DepartureAirport,
		ArrivalAirport:       m.ArrivalAirport,
		DepartureDate:        m.DepartureDate.Format(utils.DATE_LAYOUT),
		DepartureTime:        utils.NormalizeClock(stringOrEmpty(m.DepartureTime)),
		TicketClass:          stringOrEmpty(m.TicketClass),
		CurrentPrice:         m.CurrentPrice,
		LastCheckedAt:        m.LastCheckedAt,
		CheckIntervalMinutes: entity.DefaultCheckIntervalMinutes,
		IsActive:             boolOrFalse(m.IsActive),
		PNR:                  stringOrEmpty(m.PNR),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}

	if m.Segments != nil {
		flight.Segments = m.Segments.Data()
	}
	if m.CheckIntervalMinutes != nil && *m.CheckIntervalMinutes > 0 {
		flight.CheckIntervalMinutes = *m.CheckIntervalMinutes
	}

	if m.ReturnDate != nil {
		flight.Return = &entity.ReturnConstraint{
			Date: m.ReturnDate.Format(utils.DATE_LAYOUT),
			Time: utils.NormalizeClock(stringOrEmpty(m.ReturnTime)),
		}
	}

	return flight
}

func fromEntity(f *entity.MonitoredFlight) (*MonitoredFlights, error) {
	departureDate, err := time.Parse(utils.DATE_LAYOUT, f.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("invalid departure date %q: %w", f.DepartureDate, err)
	}

	isRoundTrip := f.IsRoundTrip()
	interval := f.CheckIntervalMinutes
	if interval <= 0 {
		interval = entity.DefaultCheckIntervalMinutes
	}
	isActive := f.IsActive

	row := &MonitoredFlights{
		ID:                   f.ID,
		UserID:               f.AgentID,
		Airline:              string(f.Airline),
		DepartureAirport:     f.DepartureAirport,
		ArrivalAirport:       f.ArrivalAirport,
		DepartureDate:        departureDate,
		DepartureTime:        nilIfEmpty(f.DepartureTime),
		IsRoundTrip:          &isRoundTrip,
		TicketClass:          nilIfEmpty(f.TicketClass),
		CurrentPrice:         f.CurrentPrice,
		LastCheckedAt:        f.LastCheckedAt,
		CheckIntervalMinutes: &interval,
		IsActive:             &isActive,
		PNR:                  nilIfEmpty(f.PNR),
	}

	if len(f.Segments) > 0 {
		segments := datatypes.NewJSONType(f.Segments)
		row.Segments = &segments
	}
	if isRoundTrip {
		returnDate, err := time.Parse(utils.DATE_LAYOUT, f.Return.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid return date %q: %w", f.Return.Date, err)
		}
		row.ReturnDate = &returnDate
		row.ReturnTime = nilIfEmpty(f.Return.Time)
	}

	return row, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
