package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/lasttime-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	connectAttempts = 3
	connectBackoff  = 500 * time.Millisecond
	pingTimeout     = 3 * time.Second
)

// Redis - общее подключение для кеша станций и очередей запросов
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis подключается к Redis; при недоступности сервера делает несколько попыток
func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  -1, // XREADGROUP BLOCK сам ограничивает ожидание
		WriteTimeout: pingTimeout,
	})

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			break
		}
		logger.Warn("Redis is not reachable yet",
			zap.Int("attempt", attempt),
			zap.String("addr", client.Options().Addr),
			zap.Error(lastErr))
		if attempt < connectAttempts {
			time.Sleep(time.Duration(attempt) * connectBackoff)
		}
	}
	if lastErr != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed after %d attempts: %w", connectAttempts, lastErr)
	}

	logger.Info("Redis connected",
		zap.String("addr", client.Options().Addr),
		zap.Int("db", cfg.DB))

	return &Redis{client: client, logger: logger}, nil
}

// NewRedisFromClient оборачивает готовый клиент (miniredis в тестах)
func NewRedisFromClient(client *redis.Client, logger *zap.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	r.logger.Debug("Closing Redis client")
	return r.client.Close()
}
