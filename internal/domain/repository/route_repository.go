package repository

import (
	"context"

	"github.com/lasttime-service/internal/domain"
)

// SubwayRepository - расписание метро Сеула
type SubwayRepository interface {
	// GetSubwayStationCd возвращает код станции провайдера; пустая строка - станция не найдена.
	// line уточняет линию, когда одно имя есть на нескольких линиях (0 - любая)
	GetSubwayStationCd(ctx context.Context, stationID, stationName string, line int) (string, error)

	// GetSubwayStations возвращает станции линии в порядке провайдера
	GetSubwayStations(ctx context.Context, lineName string) ([]domain.SubwayStation, error)

	// GetSubwayStationLastTime возвращает последние поезда со станции в заданном направлении
	GetSubwayStationLastTime(
		ctx context.Context,
		stationCd string,
		direction domain.DirectionType,
		week domain.WeekType,
	) ([]domain.SubwayLastTime, error)
}

// SeoulBusRepository - автобусы Сеула
type SeoulBusRepository interface {
	GetSeoulBusStationArsID(ctx context.Context, stationName string) ([]domain.SeoulBusStation, error)
	GetSeoulBusRoute(ctx context.Context, arsID string) ([]domain.SeoulBusRoute, error)
	GetSeoulBusLastTime(ctx context.Context, arsID, routeID string) ([]domain.SeoulBusLastTime, error)
}

// GyeonggiBusRepository - автобусы провинции Кёнгидо
type GyeonggiBusRepository interface {
	GetGyeonggiBusStationID(ctx context.Context, stationName string) ([]domain.GyeonggiBusStation, error)
	GetGyeonggiBusRoute(ctx context.Context, stationID string) ([]domain.GyeonggiBusRoute, error)
	GetGyeonggiBusLastTime(ctx context.Context, routeID string) ([]domain.GyeonggiBusLastTime, error)
	GetGyeonggiBusRouteStations(ctx context.Context, routeID string) ([]domain.GyeonggiBusStation, error)
}

// GeocodingRepository - обратное геокодирование координаты в административный адрес
type GeocodingRepository interface {
	ReverseGeocoding(ctx context.Context, coordinate domain.Coordinate, addressType domain.AddressType) (*domain.Address, error)
}

// RouteRepository - все источники данных, которые нужны движку последних рейсов
type RouteRepository interface {
	SubwayRepository
	SeoulBusRepository
	GyeonggiBusRepository
	GeocodingRepository
}
