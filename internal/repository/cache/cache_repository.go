package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lasttime-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// namespace отделяет ключи сервиса от чужих ключей в той же базе Redis
	namespace = "lasttime:"
	scanBatch = 200
)

type stationCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository возвращает кеш справочников поверх общего подключения Redis
func NewCacheRepository(r *Redis) repository.CacheRepository {
	return &stationCache{
		client: r.Client(),
		logger: r.logger.With(zap.String("component", "station_cache")),
	}
}

func (c *stationCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, namespace+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("station cache: get %s: %w", key, err)
	}
	return b, nil
}

func (c *stationCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, namespace+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("station cache: set %s: %w", key, err)
	}
	return nil
}

func (c *stationCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, namespace+key).Err(); err != nil {
		return fmt.Errorf("station cache: delete %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix обходит ключи через SCAN порциями по scanBatch
func (c *stationCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, namespace+prefix+"*", scanBatch).Result()
		if err != nil {
			return deleted, fmt.Errorf("station cache: scan %q: %w", prefix, err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("station cache: del: %w", err)
			}
			deleted += n
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	c.logger.Info("Station cache purged", zap.String("prefix", prefix), zap.Int64("deleted", deleted))
	return deleted, nil
}
