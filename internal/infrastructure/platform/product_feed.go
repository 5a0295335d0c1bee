package platform

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
)

// shopifyProductPayload mirrors the raw shape the Shopify-like source emits
type shopifyProductPayload struct {
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	Price     shopifyPrice `json:"price"`
	Inventory int          `json:"inventory"`
	CreatedAt string       `json:"created_at"`
}

type shopifyPrice struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// wooCommerceProductPayload mirrors the raw shape the WooCommerce-like source emits
type wooCommerceProductPayload struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	CurrencyCode  string  `json:"currency_code"`
	StockQuantity int     `json:"stock_quantity"`
	DateCreated   string  `json:"date_created"`
}

// ProductFeed emits raw product payloads in one platform's native shape.
// It stands in for the upstream platform API: its only contract is producing
// a normalizable payload.
type ProductFeed struct {
	platform commerce.Platform
	rng      *rand.Rand
	now      func() time.Time
}

// NewProductFeed creates a feed for the given platform. The rand source is
// injected so tests can pin a seed.
func NewProductFeed(p commerce.Platform, rng *rand.Rand) (*ProductFeed, error) {
	if !p.IsValid() {
		return nil, shared.ErrUnknownPlatform
	}
	return &ProductFeed{platform: p, rng: rng, now: time.Now}, nil
}

// Platform returns the platform whose payload shape this feed emits
func (f *ProductFeed) Platform() commerce.Platform {
	return f.platform
}

// Next returns the next raw payload, JSON-serialized in the platform's
// native shape
func (f *ProductFeed) Next() ([]byte, error) {
	switch f.platform {
	case commerce.PlatformShopify:
		return json.Marshal(f.nextShopify())
	case commerce.PlatformWooCommerce:
		return json.Marshal(f.nextWooCommerce())
	default:
		return nil, shared.ErrUnknownPlatform
	}
}

func (f *ProductFeed) nextShopify() shopifyProductPayload {
	return shopifyProductPayload{
		ProductID: fmt.Sprintf("prod_%d", randomInt(f.rng, 1000, 9999)),
		Name:      fmt.Sprintf("Product %d", randomInt(f.rng, 1, 100)),
		Price: shopifyPrice{
			Amount:   fmt.Sprintf("%.2f", 10+f.rng.Float64()*990),
			Currency: "USD",
		},
		Inventory: f.rng.Intn(101),
		CreatedAt: f.now().UTC().Format(time.RFC3339),
	}
}

func (f *ProductFeed) nextWooCommerce() wooCommerceProductPayload {
	price := 10 + f.rng.Float64()*990
	return wooCommerceProductPayload{
		ID:            randomInt(f.rng, 1000, 9999),
		Title:         fmt.Sprintf("Product %d", randomInt(f.rng, 1, 100)),
		Price:         float64(int(price*100)) / 100,
		CurrencyCode:  "USD",
		StockQuantity: f.rng.Intn(101),
		DateCreated:   f.now().UTC().Format(time.RFC3339),
	}
}
