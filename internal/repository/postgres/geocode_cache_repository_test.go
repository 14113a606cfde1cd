package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasttime-service/internal/domain"
	"github.com/lasttime-service/internal/repository/postgres"
	"github.com/lasttime-service/internal/repository/postgres/testhelpers"
)

func TestGeocodeCacheRepository(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()

	// повторная миграция не должна ничего менять
	require.NoError(t, db.Migrate(ctx))

	repo := postgres.NewGeocodeCacheRepository(db)

	t.Run("miss", func(t *testing.T) {
		addr, err := repo.Get(ctx, 1, 2, domain.AddressTypeLot)
		require.NoError(t, err)
		assert.Nil(t, addr)
	})

	t.Run("put then get and overwrite", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, 25000, 50000, domain.AddressTypeLot,
			&domain.Address{CityDo: "경기도", GuGun: "수원시"}))
		require.NoError(t, repo.Put(ctx, 25000, 50000, domain.AddressTypeLot,
			&domain.Address{CityDo: "서울특별시", GuGun: "중구"}))

		addr, err := repo.Get(ctx, 25000, 50000, domain.AddressTypeLot)
		require.NoError(t, err)
		assert.Equal(t, &domain.Address{CityDo: "서울특별시", GuGun: "중구"}, addr)

		other, err := repo.Get(ctx, 25000, 50000, domain.AddressTypeRoad)
		require.NoError(t, err)
		assert.Nil(t, other)
	})

	t.Run("purge by address type", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, 1, 1, domain.AddressTypeRoad, &domain.Address{CityDo: "서울특별시"}))

		n, err := repo.Purge(ctx, []domain.AddressType{domain.AddressTypeLot})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		addr, err := repo.Get(ctx, 1, 1, domain.AddressTypeRoad)
		require.NoError(t, err)
		assert.NotNil(t, addr)
	})
}
