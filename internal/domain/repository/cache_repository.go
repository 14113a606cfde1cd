package repository

import (
	"context"
	"time"
)

// CacheRepository - хранилище справочных ответов провайдеров (станции, коды, составы маршрутов).
// Ключи задаются без общего префикса сервиса; его добавляет реализация.
type CacheRepository interface {
	// Get возвращает (nil, nil) при промахе
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix удаляет все ключи, начинающиеся с prefix, и возвращает их количество.
	// Пустой prefix очищает весь кеш сервиса.
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}
