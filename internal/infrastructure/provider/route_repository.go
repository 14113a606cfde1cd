package provider

import (
	"github.com/lasttime-service/internal/config"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/infrastructure/gyeonggibus"
	"github.com/lasttime-service/internal/infrastructure/seoulbus"
	"github.com/lasttime-service/internal/infrastructure/seoulsubway"
	"github.com/lasttime-service/internal/infrastructure/tmap"
	"github.com/lasttime-service/internal/metrics"
	"go.uber.org/zap"
)

type routeRepository struct {
	repository.SubwayRepository
	repository.SeoulBusRepository
	repository.GyeonggiBusRepository
	repository.GeocodingRepository
}

// NewRouteRepository собирает клиентов всех провайдеров в один RouteRepository
func NewRouteRepository(cfg *config.ProvidersConfig, logger *zap.Logger, m *metrics.Collector) repository.RouteRepository {
	return Compose(
		seoulsubway.NewSubwayClient(cfg, logger, m),
		seoulbus.NewBusClient(cfg, logger, m),
		gyeonggibus.NewBusClient(cfg, logger, m),
		tmap.NewGeocodingClient(cfg, logger, m),
	)
}

// Compose объединяет отдельные источники данных
func Compose(
	subway repository.SubwayRepository,
	seoulBus repository.SeoulBusRepository,
	gyeonggiBus repository.GyeonggiBusRepository,
	geocoding repository.GeocodingRepository,
) repository.RouteRepository {
	return &routeRepository{
		SubwayRepository:      subway,
		SeoulBusRepository:    seoulBus,
		GyeonggiBusRepository: gyeonggiBus,
		GeocodingRepository:   geocoding,
	}
}
