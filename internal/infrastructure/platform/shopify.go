package platform

import (
	"math/rand"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/shopspring/decimal"
)

// shopifyMetrics is the platform-native metric shape a real Shopify admin API
// would report for a shop
type shopifyMetrics struct {
	ShopID             string
	ShopName           string
	GrossSales         decimal.Decimal
	OrdersCount        int
	AverageOrderAmount decimal.Decimal
	CustomerCount      int
	ProductCount       int
	AbandonedCartRate  float64
	ShopifyPlus        bool
	AppUsage           int
}

// ShopifyAdapter simulates the Shopify-like storefront
type ShopifyAdapter struct {
	rng *rand.Rand
}

// NewShopifyAdapter creates a Shopify adapter with the given random source
func NewShopifyAdapter(rng *rand.Rand) *ShopifyAdapter {
	return &ShopifyAdapter{rng: rng}
}

// Platform returns the platform this adapter simulates
func (a *ShopifyAdapter) Platform() commerce.Platform {
	return commerce.PlatformShopify
}

// GenerateMetrics produces Shopify-shaped metrics for a merchant and maps
// them to the canonical record
func (a *ShopifyAdapter) GenerateMetrics(merchantID, merchantName string) commerce.MerchantMetric {
	native := shopifyMetrics{
		ShopID:             merchantID,
		ShopName:           merchantName,
		GrossSales:         randomAmount(a.rng, 10_000, 1_000_000),
		OrdersCount:        randomInt(a.rng, 100, 10_000),
		AverageOrderAmount: randomAmount(a.rng, 50, 500),
		CustomerCount:      randomInt(a.rng, 50, 5_000),
		ProductCount:       randomInt(a.rng, 10, 1_000),
		AbandonedCartRate:  0.1 + a.rng.Float64()*0.2,
		ShopifyPlus:        a.rng.Intn(2) == 0,
		AppUsage:           randomInt(a.rng, 1, 20),
	}

	return commerce.MerchantMetric{
		MerchantID:        native.ShopID,
		Platform:          commerce.PlatformShopify,
		MerchantName:      native.ShopName,
		TotalSales:        native.GrossSales,
		TotalOrders:       native.OrdersCount,
		AverageOrderValue: native.AverageOrderAmount,
		TotalCustomers:    native.CustomerCount,
		TotalProducts:     native.ProductCount,
	}
}

// randomAmount draws a uniform decimal in [min, max) rounded to cents
func randomAmount(rng *rand.Rand, min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(min + rng.Float64()*(max-min)).Round(2)
}

// randomInt draws a uniform int in [min, max]
func randomInt(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}
