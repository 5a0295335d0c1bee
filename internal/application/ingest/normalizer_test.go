package ingest

import (
	"testing"
	"time"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeShopify(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		raw := []byte(`{"product_id":"abc123","name":"Cool Hoodie","price":{"amount":"39.99","currency":"USD"},"inventory":50,"created_at":"2024-12-01T10:00:00Z"}`)

		product, err := NormalizeShopify(raw)
		require.NoError(t, err)

		assert.Equal(t, commerce.PlatformShopify, product.Platform)
		assert.Equal(t, "abc123", product.PlatformID)
		assert.Equal(t, "Cool Hoodie", product.Title)
		assert.True(t, product.Price.Equal(decimal.RequireFromString("39.99")),
			"expected 39.99, got %s", product.Price)
		assert.Equal(t, "USD", product.Currency)
		assert.Equal(t, 50, product.Quantity)
		assert.Equal(t, time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC), product.CreatedAt.UTC())
	})

	t.Run("missing product_id", func(t *testing.T) {
		raw := []byte(`{"name":"Cool Hoodie","price":{"amount":"39.99","currency":"USD"},"inventory":50,"created_at":"2024-12-01T10:00:00Z"}`)

		_, err := NormalizeShopify(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
		assert.Contains(t, err.Error(), "product_id")
	})

	t.Run("missing nested price object", func(t *testing.T) {
		raw := []byte(`{"product_id":"abc123","name":"Cool Hoodie","inventory":50,"created_at":"2024-12-01T10:00:00Z"}`)

		_, err := NormalizeShopify(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
	})

	t.Run("non-numeric price amount", func(t *testing.T) {
		raw := []byte(`{"product_id":"abc123","name":"Cool Hoodie","price":{"amount":"free","currency":"USD"},"inventory":50,"created_at":"2024-12-01T10:00:00Z"}`)

		_, err := NormalizeShopify(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
		assert.Contains(t, err.Error(), "price.amount")
	})

	t.Run("negative price rejected", func(t *testing.T) {
		raw := []byte(`{"product_id":"abc123","name":"Cool Hoodie","price":{"amount":"-5.00","currency":"USD"},"inventory":50,"created_at":"2024-12-01T10:00:00Z"}`)

		_, err := NormalizeShopify(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
	})

	t.Run("invalid currency code", func(t *testing.T) {
		raw := []byte(`{"product_id":"abc123","name":"Cool Hoodie","price":{"amount":"39.99","currency":"DOLLARS"},"inventory":50,"created_at":"2024-12-01T10:00:00Z"}`)

		_, err := NormalizeShopify(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
	})

	t.Run("invalid timestamp", func(t *testing.T) {
		raw := []byte(`{"product_id":"abc123","name":"Cool Hoodie","price":{"amount":"39.99","currency":"USD"},"inventory":50,"created_at":"yesterday"}`)

		_, err := NormalizeShopify(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
	})

	t.Run("not a JSON object", func(t *testing.T) {
		_, err := NormalizeShopify([]byte(`[1,2,3]`))
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
	})
}

func TestNormalizeWooCommerce(t *testing.T) {
	t.Run("valid payload coerces numeric id", func(t *testing.T) {
		raw := []byte(`{"id":555,"title":"Cool Hoodie","price":39.99,"currency_code":"USD","stock_quantity":50,"date_created":"2024-12-01T10:00:00Z"}`)

		product, err := NormalizeWooCommerce(raw)
		require.NoError(t, err)

		assert.Equal(t, commerce.PlatformWooCommerce, product.Platform)
		assert.Equal(t, "555", product.PlatformID)
		assert.Equal(t, "Cool Hoodie", product.Title)
		assert.True(t, product.Price.Equal(decimal.RequireFromString("39.99")),
			"expected 39.99, got %s", product.Price)
		assert.Equal(t, "USD", product.Currency)
		assert.Equal(t, 50, product.Quantity)
	})

	t.Run("price precision survives JSON float", func(t *testing.T) {
		// 19.99 has no exact float64 representation; json.Number keeps the text.
		raw := []byte(`{"id":1,"title":"Mug","price":19.99,"currency_code":"USD","stock_quantity":3,"date_created":"2024-12-01T10:00:00Z"}`)

		product, err := NormalizeWooCommerce(raw)
		require.NoError(t, err)
		assert.Equal(t, "19.99", product.Price.String())
	})

	t.Run("non-integer quantity rejected", func(t *testing.T) {
		raw := []byte(`{"id":555,"title":"Cool Hoodie","price":39.99,"currency_code":"USD","stock_quantity":1.5,"date_created":"2024-12-01T10:00:00Z"}`)

		_, err := NormalizeWooCommerce(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
		assert.Contains(t, err.Error(), "stock_quantity")
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		raw := []byte(`{"id":555,"title":"Cool Hoodie","price":39.99,"currency_code":"USD","stock_quantity":-1,"date_created":"2024-12-01T10:00:00Z"}`)

		_, err := NormalizeWooCommerce(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
	})

	t.Run("missing title", func(t *testing.T) {
		raw := []byte(`{"id":555,"price":39.99,"currency_code":"USD","stock_quantity":50,"date_created":"2024-12-01T10:00:00Z"}`)

		_, err := NormalizeWooCommerce(raw)
		require.Error(t, err)
		assert.True(t, IsNormalizationError(err))
	})
}

func TestNormalizeUnknownPlatform(t *testing.T) {
	_, err := Normalize(commerce.Platform("etsy"), []byte(`{}`))
	assert.ErrorIs(t, err, shared.ErrUnknownPlatform)
}
