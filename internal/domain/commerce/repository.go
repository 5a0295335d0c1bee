package commerce

import (
	"context"

	"github.com/ecomsync/backend/internal/domain/shared"
)

// UpsertOutcome reports whether an upsert inserted a new row or updated an
// existing one. The value is advisory (logging, tests); key collisions are
// resolved by the storage engine, not by this flag.
type UpsertOutcome string

const (
	UpsertInserted UpsertOutcome = "inserted"
	UpsertUpdated  UpsertOutcome = "updated"
)

// ProductRepository persists canonical products keyed by (platform, platform_id)
type ProductRepository interface {
	// Upsert inserts the product or updates the mutable fields of the row
	// sharing its natural key. created_at is never touched on update.
	Upsert(ctx context.Context, product *Product) (UpsertOutcome, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByNaturalKey(ctx context.Context, platform Platform, platformID string) (*Product, error)
	// List returns a page of products matching the filter plus the total
	// count of matching rows.
	List(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
}

// MerchantMetricRepository persists merchant metrics keyed by (merchant_id, platform)
type MerchantMetricRepository interface {
	Upsert(ctx context.Context, metric *MerchantMetric) (UpsertOutcome, error)
	FindByNaturalKey(ctx context.Context, merchantID string, platform Platform) (*MerchantMetric, error)
	// FindAllForPlatform returns every metric row for one platform in a
	// stable order, for the growth simulator to walk.
	FindAllForPlatform(ctx context.Context, platform Platform) ([]MerchantMetric, error)
	// ExistsByMerchantID reports whether any platform has a row for the id
	ExistsByMerchantID(ctx context.Context, merchantID string) (bool, error)
	// ExistsByMerchantName reports whether any platform has a row with the name
	ExistsByMerchantName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, filter shared.Filter) ([]MerchantMetric, int64, error)
}
