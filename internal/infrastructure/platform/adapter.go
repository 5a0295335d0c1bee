package platform

import (
	"math/rand"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
)

// Adapter generates platform-native merchant metrics and maps them to the
// canonical record. Each simulated storefront has its own implementation;
// shared growth and synthesis logic lives in the growth package, not here.
type Adapter interface {
	Platform() commerce.Platform
	// GenerateMetrics produces a fresh metric snapshot for a merchant in
	// the platform's native shape, already mapped to the canonical record.
	GenerateMetrics(merchantID, merchantName string) commerce.MerchantMetric
}

// NewAdapter returns the adapter for the given platform. The rand source is
// injected so tests can pin a seed and assert deterministic output.
func NewAdapter(p commerce.Platform, rng *rand.Rand) (Adapter, error) {
	switch p {
	case commerce.PlatformShopify:
		return NewShopifyAdapter(rng), nil
	case commerce.PlatformWooCommerce:
		return NewWooCommerceAdapter(rng), nil
	default:
		return nil, shared.ErrUnknownPlatform
	}
}

// NewAdapters returns one adapter per supported platform, all sharing rng
func NewAdapters(rng *rand.Rand) map[commerce.Platform]Adapter {
	return map[commerce.Platform]Adapter{
		commerce.PlatformShopify:     NewShopifyAdapter(rng),
		commerce.PlatformWooCommerce: NewWooCommerceAdapter(rng),
	}
}
