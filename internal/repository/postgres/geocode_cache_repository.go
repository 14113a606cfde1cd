package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/domain/repository"
)

type geocodeCacheRepository struct {
	db *DB
}

// NewGeocodeCacheRepository - кеш обратного геокодирования по ячейке сетки
func NewGeocodeCacheRepository(db *DB) repository.GeocodeCacheRepository {
	return &geocodeCacheRepository{db: db}
}

type geocodeRow struct {
	CityDo string `db:"city_do"`
	GuGun  string `db:"gu_gun"`
}

func (r *geocodeCacheRepository) Get(
	ctx context.Context,
	cellX, cellY int64,
	addressType domain.AddressType,
) (*domain.Address, error) {
	query := `
		SELECT city_do, gu_gun
		FROM geocode_cache
		WHERE cell_x = $1 AND cell_y = $2 AND address_type = $3
	`

	var row geocodeRow
	err := r.db.GetContext(ctx, &row, query, cellX, cellY, string(addressType))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.db.logger.Error("Failed to read geocode cache",
			zap.Int64("cell_x", cellX),
			zap.Int64("cell_y", cellY),
			zap.Error(err))
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}

	return &domain.Address{CityDo: row.CityDo, GuGun: row.GuGun}, nil
}

func (r *geocodeCacheRepository) Put(
	ctx context.Context,
	cellX, cellY int64,
	addressType domain.AddressType,
	address *domain.Address,
) error {
	if address == nil {
		return fmt.Errorf("put geocode cache: nil address")
	}

	query := `
		INSERT INTO geocode_cache (cell_x, cell_y, address_type, city_do, gu_gun, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (cell_x, cell_y, address_type) DO UPDATE
		SET city_do = EXCLUDED.city_do,
			gu_gun = EXCLUDED.gu_gun,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query,
		cellX, cellY, string(addressType), address.CityDo, address.GuGun); err != nil {
		return fmt.Errorf("put geocode cache cell=(%d,%d): %w", cellX, cellY, err)
	}
	return nil
}

func (r *geocodeCacheRepository) Purge(ctx context.Context, addressTypes []domain.AddressType) (int64, error) {
	if len(addressTypes) == 0 {
		return 0, nil
	}

	types := make([]string, len(addressTypes))
	for i, t := range addressTypes {
		types[i] = string(t)
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM geocode_cache WHERE address_type = ANY($1)`, pq.Array(types))
	if err != nil {
		return 0, fmt.Errorf("purge geocode cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge geocode cache: rows affected: %w", err)
	}

	r.db.logger.Info("Geocode cache purged",
		zap.Strings("address_types", types),
		zap.Int64("deleted", n))
	return n, nil
}
