// Package bootstrap собирает инфраструктуру, общую для api, worker и lastctl.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lasttime-service/internal/config"
	"github.com/lasttime-service/internal/domain/repository"
	"github.com/lasttime-service/internal/infrastructure/provider"
	"github.com/lasttime-service/internal/metrics"
	"github.com/lasttime-service/internal/repository/cache"
	"github.com/lasttime-service/internal/repository/postgres"
	"github.com/lasttime-service/internal/usecase"
)

const healthTimeout = 5 * time.Second

// Infra - подключения и репозитории процесса
type Infra struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector

	Redis *cache.Redis // nil, если не нужен
	DB    *postgres.DB // nil при DB_ENABLED=false

	Routes repository.RouteRepository
}

// New подключает Redis (если кеш включён или needRedis) и PostgreSQL (если DB_ENABLED)
// и собирает репозиторий провайдеров с кешами.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, needRedis bool) (*Infra, error) {
	infra := &Infra{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.NewCollector(),
	}

	if cfg.Cache.Enabled || needRedis {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		infra.Redis = redisClient
	}

	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		infra.DB = db

		if err := db.Migrate(ctx); err != nil {
			infra.Close()
			return nil, err
		}
	}

	if err := infra.Health(ctx); err != nil {
		infra.Close()
		return nil, err
	}

	routes := provider.NewRouteRepository(&cfg.Providers, log, infra.Metrics)
	if cfg.Cache.Enabled {
		var geocodes repository.GeocodeCacheRepository
		if infra.DB != nil {
			geocodes = postgres.NewGeocodeCacheRepository(infra.DB)
		}
		routes = cache.NewRouteRepository(
			routes,
			cache.NewCacheRepository(infra.Redis),
			geocodes,
			cfg.Cache.StationCacheTTL,
			log,
			infra.Metrics,
		)
	}
	infra.Routes = routes

	log.Info("Infrastructure initialized",
		zap.Bool("redis", infra.Redis != nil),
		zap.Bool("postgres", infra.DB != nil),
		zap.Bool("cache", cfg.Cache.Enabled))

	return infra, nil
}

// Health проверяет подключения
func (i *Infra) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if i.Redis != nil {
		if err := i.Redis.Health(ctx); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	if i.DB != nil {
		if err := i.DB.Health(ctx); err != nil {
			return fmt.Errorf("postgres health check failed: %w", err)
		}
	}
	return nil
}

// NewEngine создает движок последних рейсов по конфигурации
func (i *Infra) NewEngine() (*usecase.LastTimeUseCase, error) {
	loc, err := i.Config.Location()
	if err != nil {
		return nil, err
	}

	return usecase.NewLastTimeUseCase(i.Routes, i.Logger,
		usecase.WithMaxConcurrentLegs(i.Config.Engine.MaxConcurrentLegs),
		usecase.WithLocation(loc),
		usecase.WithMetrics(i.Metrics),
	), nil
}

// Close закрывает подключения
func (i *Infra) Close() {
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			i.Logger.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.Logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
}
