package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/metrics"
	"github.com/lasttime-service/internal/pkg/utils"
	"go.uber.org/zap"
)

// routeRepository кеширует справочные ответы провайдеров: станции, коды, состав маршрутов.
// Расписания последних рейсов всегда запрашиваются у провайдера.
type routeRepository struct {
	repository.RouteRepository
	cache    repository.CacheRepository
	geocodes repository.GeocodeCacheRepository
	ttl      time.Duration
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// NewRouteRepository оборачивает next кешем; geocodes может быть nil (без Postgres)
func NewRouteRepository(
	next repository.RouteRepository,
	cache repository.CacheRepository,
	geocodes repository.GeocodeCacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
	m *metrics.Collector,
) repository.RouteRepository {
	return &routeRepository{
		RouteRepository: next,
		cache:           cache,
		geocodes:        geocodes,
		ttl:             ttl,
		logger:          logger,
		metrics:         m,
	}
}

func (r *routeRepository) GetSubwayStationCd(ctx context.Context, stationID, stationName string, line int) (string, error) {
	key := fmt.Sprintf("subway:cd:%d:%s", line, stationName)
	return cached(ctx, r, "subway_station_cd", key, func() (string, error) {
		return r.RouteRepository.GetSubwayStationCd(ctx, stationID, stationName, line)
	}, func(v string) bool { return v == "" })
}

func (r *routeRepository) GetSubwayStations(ctx context.Context, lineName string) ([]domain.SubwayStation, error) {
	return cached(ctx, r, "subway_stations", "subway:line:"+lineName, func() ([]domain.SubwayStation, error) {
		return r.RouteRepository.GetSubwayStations(ctx, lineName)
	}, isEmpty[domain.SubwayStation])
}

func (r *routeRepository) GetSeoulBusStationArsID(ctx context.Context, stationName string) ([]domain.SeoulBusStation, error) {
	return cached(ctx, r, "seoul_bus_stations", "seoulbus:station:"+stationName, func() ([]domain.SeoulBusStation, error) {
		return r.RouteRepository.GetSeoulBusStationArsID(ctx, stationName)
	}, isEmpty[domain.SeoulBusStation])
}

func (r *routeRepository) GetGyeonggiBusStationID(ctx context.Context, stationName string) ([]domain.GyeonggiBusStation, error) {
	return cached(ctx, r, "gyeonggi_bus_stations", "gyeonggibus:station:"+stationName, func() ([]domain.GyeonggiBusStation, error) {
		return r.RouteRepository.GetGyeonggiBusStationID(ctx, stationName)
	}, isEmpty[domain.GyeonggiBusStation])
}

func (r *routeRepository) GetGyeonggiBusRouteStations(ctx context.Context, routeID string) ([]domain.GyeonggiBusStation, error) {
	return cached(ctx, r, "gyeonggi_route_stations", "gyeonggibus:route:"+routeID, func() ([]domain.GyeonggiBusStation, error) {
		return r.RouteRepository.GetGyeonggiBusRouteStations(ctx, routeID)
	}, isEmpty[domain.GyeonggiBusStation])
}

// ReverseGeocoding кеширует адрес по ячейке сетки сопоставления станций
func (r *routeRepository) ReverseGeocoding(
	ctx context.Context,
	coordinate domain.Coordinate,
	addressType domain.AddressType,
) (*domain.Address, error) {
	if r.geocodes == nil {
		return r.RouteRepository.ReverseGeocoding(ctx, coordinate, addressType)
	}

	x, y := utils.GridCell(coordinate)
	addr, err := r.geocodes.Get(ctx, x, y, addressType)
	if err != nil {
		r.logger.Warn("Geocode cache lookup failed", zap.Error(err))
	}
	if addr != nil {
		r.metrics.ObserveCache("geocode", true)
		return addr, nil
	}
	r.metrics.ObserveCache("geocode", false)

	addr, err = r.RouteRepository.ReverseGeocoding(ctx, coordinate, addressType)
	if err != nil {
		return nil, err
	}

	if err := r.geocodes.Put(ctx, x, y, addressType, addr); err != nil {
		r.logger.Warn("Failed to store geocode", zap.Error(err))
	}
	return addr, nil
}

func isEmpty[T any](v []T) bool {
	return len(v) == 0
}

// cached читает JSON значение из кеша или загружает его; пустые ответы не кешируются
func cached[T any](
	ctx context.Context,
	r *routeRepository,
	name, key string,
	load func() (T, error),
	empty func(T) bool,
) (T, error) {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("Cache lookup failed, calling provider", zap.String("key", key), zap.Error(err))
	}
	if data != nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			r.metrics.ObserveCache(name, true)
			return v, nil
		}
		r.logger.Warn("Dropping undecodable cache entry", zap.String("key", key))
		_ = r.cache.Delete(ctx, key)
	}
	r.metrics.ObserveCache(name, false)

	v, err := load()
	if err != nil || empty(v) {
		return v, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := r.cache.Set(ctx, key, encoded, r.ttl); err != nil {
		r.logger.Warn("Failed to cache provider response", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
