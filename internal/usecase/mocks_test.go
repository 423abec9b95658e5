package usecase

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

// MockMonitoredFlightRepository is a mock implementation of MonitoredFlightRepository
type MockMonitoredFlightRepository struct {
	mock.Mock
}

func (m *MockMonitoredFlightRepository) FindByID(ctx context.Context, id string) (*entity.MonitoredFlight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MonitoredFlight), args.Error(1)
}

func (m *MockMonitoredFlightRepository) FindActive(ctx context.Context) ([]*entity.MonitoredFlight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.MonitoredFlight), args.Error(1)
}

func (m *MockMonitoredFlightRepository) FindByAgent(ctx context.Context, agentID string) ([]*entity.MonitoredFlight, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.MonitoredFlight), args.Error(1)
}

func (m *MockMonitoredFlightRepository) Create(ctx context.Context, flight *entity.MonitoredFlight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockMonitoredFlightRepository) UpdatePrice(ctx context.Context, id string, price int64, checkedAt time.Time) error {
	args := m.Called(ctx, id, price, checkedAt)
	return args.Error(0)
}

func (m *MockMonitoredFlightRepository) UpdateSettings(ctx context.Context, id string, isActive *bool, intervalMinutes *int) error {
	args := m.Called(ctx, id, isActive, intervalMinutes)
	return args.Error(0)
}

// MockFareSearch is a mock fare endpoint for one airline
type MockFareSearch struct {
	mock.Mock
	airline entity.Airline
}

func (m *MockFareSearch) Airline() entity.Airline {
	return m.airline
}

func (m *MockFareSearch) Search(ctx context.Context, query entity.FareQuery) ([]entity.FareOffer, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FareOffer), args.Error(1)
}

type mapRouter map[entity.Airline]repository.FareSearchRepository

func (r mapRouter) Get(airline entity.Airline) repository.FareSearchRepository {
	return r[airline]
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*entity.AgentProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AgentProfile), args.Error(1)
}

// MockSearchLogRepository is a mock implementation of SearchLogRepository
type MockSearchLogRepository struct {
	mock.Mock
}

func (m *MockSearchLogRepository) Save(ctx context.Context, log *entity.SearchLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// MockNotifier is a mock price alert channel
type MockNotifier struct {
	mock.Mock
	channel string
}

func (m *MockNotifier) Channel() string {
	return m.channel
}

func (m *MockNotifier) Enabled(profile *entity.AgentProfile) bool {
	args := m.Called(profile)
	return args.Bool(0)
}

func (m *MockNotifier) Send(ctx context.Context, profile *entity.AgentProfile, alert entity.PriceCheckResult) error {
	args := m.Called(ctx, profile, alert)
	return args.Error(0)
}
