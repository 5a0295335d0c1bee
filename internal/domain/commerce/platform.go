package commerce

import "github.com/ecomsync/backend/internal/domain/shared"

// Platform identifies one of the simulated e-commerce sources
type Platform string

const (
	PlatformShopify     Platform = "shopify"
	PlatformWooCommerce Platform = "woocommerce"
)

// AllPlatforms returns every supported platform
func AllPlatforms() []Platform {
	return []Platform{PlatformShopify, PlatformWooCommerce}
}

// ParsePlatform validates a platform name
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformShopify, PlatformWooCommerce:
		return Platform(s), nil
	default:
		return "", shared.ErrUnknownPlatform
	}
}

// IsValid reports whether the platform is one of the supported sources
func (p Platform) IsValid() bool {
	_, err := ParsePlatform(string(p))
	return err == nil
}

// Other returns the opposite platform, used when mirroring a merchant
// across both storefronts
func (p Platform) Other() Platform {
	if p == PlatformShopify {
		return PlatformWooCommerce
	}
	return PlatformShopify
}

func (p Platform) String() string {
	return string(p)
}
