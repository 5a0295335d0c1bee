package platform

import (
	"fmt"
	"math/rand"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/shopspring/decimal"
)

// wooCommerceMetrics is the platform-native metric shape a real WooCommerce
// store would report
type wooCommerceMetrics struct {
	StoreID            string
	StoreName          string
	NetSales           decimal.Decimal
	OrderVolume        int
	AvgOrderTotal      decimal.Decimal
	RegisteredUsers    int
	PublishedProducts  int
	WooCommerceVersion string
	ActivePlugins      int
	PaymentGateways    int
}

// WooCommerceAdapter simulates the WooCommerce-like storefront
type WooCommerceAdapter struct {
	rng *rand.Rand
}

// NewWooCommerceAdapter creates a WooCommerce adapter with the given random source
func NewWooCommerceAdapter(rng *rand.Rand) *WooCommerceAdapter {
	return &WooCommerceAdapter{rng: rng}
}

// Platform returns the platform this adapter simulates
func (a *WooCommerceAdapter) Platform() commerce.Platform {
	return commerce.PlatformWooCommerce
}

// GenerateMetrics produces WooCommerce-shaped metrics for a merchant and maps
// them to the canonical record
func (a *WooCommerceAdapter) GenerateMetrics(merchantID, merchantName string) commerce.MerchantMetric {
	native := wooCommerceMetrics{
		StoreID:           merchantID,
		StoreName:         merchantName,
		NetSales:          randomAmount(a.rng, 10_000, 1_000_000),
		OrderVolume:       randomInt(a.rng, 100, 10_000),
		AvgOrderTotal:     randomAmount(a.rng, 50, 500),
		RegisteredUsers:   randomInt(a.rng, 50, 5_000),
		PublishedProducts: randomInt(a.rng, 10, 1_000),
		WooCommerceVersion: fmt.Sprintf("%d.%d.%d",
			randomInt(a.rng, 5, 8), a.rng.Intn(10), a.rng.Intn(10)),
		ActivePlugins:   randomInt(a.rng, 5, 30),
		PaymentGateways: randomInt(a.rng, 1, 5),
	}

	return commerce.MerchantMetric{
		MerchantID:        native.StoreID,
		Platform:          commerce.PlatformWooCommerce,
		MerchantName:      native.StoreName,
		TotalSales:        native.NetSales,
		TotalOrders:       native.OrderVolume,
		AverageOrderValue: native.AvgOrderTotal,
		TotalCustomers:    native.RegisteredUsers,
		TotalProducts:     native.PublishedProducts,
	}
}
