package repository

import (
	"context"

	"github.com/lasttime-service/internal/domain"
)

// GeocodeCacheRepository хранит результаты обратного геокодирования по ячейке сетки
type GeocodeCacheRepository interface {
	// Get возвращает адрес ячейки; (nil, nil) - промах
	Get(ctx context.Context, cellX, cellY int64, addressType domain.AddressType) (*domain.Address, error)

	// Put сохраняет или обновляет адрес ячейки
	Put(ctx context.Context, cellX, cellY int64, addressType domain.AddressType, address *domain.Address) error

	// Purge удаляет записи указанных типов адреса и возвращает количество удалённых строк
	Purge(ctx context.Context, addressTypes []domain.AddressType) (int64, error)
}
