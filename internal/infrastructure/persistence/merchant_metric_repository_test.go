package persistence

import (
	"context"
	"testing"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetric(merchantID string, platform commerce.Platform) *commerce.MerchantMetric {
	return &commerce.MerchantMetric{
		MerchantID:        merchantID,
		Platform:          platform,
		MerchantName:      "Urban Thread Trading Co",
		TotalSales:        decimal.RequireFromString("125000.00"),
		TotalOrders:       1400,
		AverageOrderValue: decimal.RequireFromString("89.28"),
		TotalCustomers:    800,
		TotalProducts:     120,
	}
}

func TestMerchantMetricRepositoryUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMerchantMetricRepository(db)
	ctx := context.Background()

	t.Run("first write inserts", func(t *testing.T) {
		outcome, err := repo.Upsert(ctx, testMetric("utt-0001", commerce.PlatformShopify))
		require.NoError(t, err)
		assert.Equal(t, commerce.UpsertInserted, outcome)
	})

	t.Run("same merchant on same platform updates in place", func(t *testing.T) {
		update := testMetric("utt-0001", commerce.PlatformShopify)
		update.TotalSales = decimal.RequireFromString("140000.00")
		update.TotalOrders = 1500

		outcome, err := repo.Upsert(ctx, update)
		require.NoError(t, err)
		assert.Equal(t, commerce.UpsertUpdated, outcome)

		found, err := repo.FindByNaturalKey(ctx, "utt-0001", commerce.PlatformShopify)
		require.NoError(t, err)
		assert.True(t, found.TotalSales.Equal(decimal.RequireFromString("140000.00")))
		assert.Equal(t, 1500, found.TotalOrders)

		var count int64
		require.NoError(t, db.Model(&commerce.MerchantMetric{}).
			Where("merchant_id = ?", "utt-0001").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("same merchant on the other platform is a distinct row", func(t *testing.T) {
		outcome, err := repo.Upsert(ctx, testMetric("utt-0001", commerce.PlatformWooCommerce))
		require.NoError(t, err)
		assert.Equal(t, commerce.UpsertInserted, outcome)

		var count int64
		require.NoError(t, db.Model(&commerce.MerchantMetric{}).
			Where("merchant_id = ?", "utt-0001").Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})
}

func TestMerchantMetricRepositoryQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMerchantMetricRepository(db)
	ctx := context.Background()

	seed := []struct {
		id       string
		name     string
		platform commerce.Platform
	}{
		{"b-merchant", "Bright Harbor Goods", commerce.PlatformShopify},
		{"a-merchant", "Coastal Bloom Market", commerce.PlatformShopify},
		{"c-merchant", "Golden Maple Supply", commerce.PlatformWooCommerce},
	}
	for _, s := range seed {
		m := testMetric(s.id, s.platform)
		m.MerchantName = s.name
		_, err := repo.Upsert(ctx, m)
		require.NoError(t, err)
	}

	t.Run("FindAllForPlatform is ordered by merchant_id", func(t *testing.T) {
		metrics, err := repo.FindAllForPlatform(ctx, commerce.PlatformShopify)
		require.NoError(t, err)
		require.Len(t, metrics, 2)
		assert.Equal(t, "a-merchant", metrics[0].MerchantID)
		assert.Equal(t, "b-merchant", metrics[1].MerchantID)
	})

	t.Run("existence checks span platforms", func(t *testing.T) {
		taken, err := repo.ExistsByMerchantID(ctx, "c-merchant")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ExistsByMerchantName(ctx, "Golden Maple Supply")
		require.NoError(t, err)
		assert.True(t, taken)

		free, err := repo.ExistsByMerchantID(ctx, "z-merchant")
		require.NoError(t, err)
		assert.False(t, free)
	})

	t.Run("List filters by platform and searches names", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["platform"] = commerce.PlatformShopify

		_, total, err := repo.List(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		filter = shared.DefaultFilter()
		filter.Search = "maple"

		metrics, total, err := repo.List(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Golden Maple Supply", metrics[0].MerchantName)
	})

	t.Run("missing natural key returns not found", func(t *testing.T) {
		_, err := repo.FindByNaturalKey(ctx, "z-merchant", commerce.PlatformShopify)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
