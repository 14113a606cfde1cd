package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lasttime-service/internal/domain"
)

// MockRouteRepository - мок всех провайдеров расписаний
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) GetSubwayStationCd(ctx context.Context, stationID, stationName string, line int) (string, error) {
	args := m.Called(ctx, stationID, stationName, line)
	return args.String(0), args.Error(1)
}

func (m *MockRouteRepository) GetSubwayStations(ctx context.Context, lineName string) ([]domain.SubwayStation, error) {
	args := m.Called(ctx, lineName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubwayStation), args.Error(1)
}

func (m *MockRouteRepository) GetSubwayStationLastTime(
	ctx context.Context,
	stationCd string,
	direction domain.DirectionType,
	week domain.WeekType,
) ([]domain.SubwayLastTime, error) {
	args := m.Called(ctx, stationCd, direction, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubwayLastTime), args.Error(1)
}

func (m *MockRouteRepository) GetSeoulBusStationArsID(ctx context.Context, stationName string) ([]domain.SeoulBusStation, error) {
	args := m.Called(ctx, stationName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeoulBusStation), args.Error(1)
}

func (m *MockRouteRepository) GetSeoulBusRoute(ctx context.Context, arsID string) ([]domain.SeoulBusRoute, error) {
	args := m.Called(ctx, arsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeoulBusRoute), args.Error(1)
}

func (m *MockRouteRepository) GetSeoulBusLastTime(ctx context.Context, arsID, routeID string) ([]domain.SeoulBusLastTime, error) {
	args := m.Called(ctx, arsID, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeoulBusLastTime), args.Error(1)
}

func (m *MockRouteRepository) GetGyeonggiBusStationID(ctx context.Context, stationName string) ([]domain.GyeonggiBusStation, error) {
	args := m.Called(ctx, stationName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GyeonggiBusStation), args.Error(1)
}

func (m *MockRouteRepository) GetGyeonggiBusRoute(ctx context.Context, stationID string) ([]domain.GyeonggiBusRoute, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GyeonggiBusRoute), args.Error(1)
}

func (m *MockRouteRepository) GetGyeonggiBusLastTime(ctx context.Context, routeID string) ([]domain.GyeonggiBusLastTime, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GyeonggiBusLastTime), args.Error(1)
}

func (m *MockRouteRepository) GetGyeonggiBusRouteStations(ctx context.Context, routeID string) ([]domain.GyeonggiBusStation, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GyeonggiBusStation), args.Error(1)
}

func (m *MockRouteRepository) ReverseGeocoding(ctx context.Context, c domain.Coordinate, t domain.AddressType) (*domain.Address, error) {
	args := m.Called(ctx, c, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}
