package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements commerce.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// productUpdateColumns are the mutable fields refreshed on every upsert.
// created_at is deliberately absent: it is set once on first insert.
var productUpdateColumns = []string{"title", "price", "currency", "quantity", "updated_at"}

// Upsert inserts the product or, when a row with the same
// (platform, platform_id) already exists, updates its mutable fields.
// The conflict is resolved atomically by the database's ON CONFLICT
// clause, so two concurrent upserts for one key can never both insert.
func (r *GormProductRepository) Upsert(ctx context.Context, product *commerce.Product) (commerce.UpsertOutcome, error) {
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	// The outcome flag is advisory only; correctness does not depend on
	// this read.
	var existing int64
	if err := r.db.WithContext(ctx).Model(&commerce.Product{}).
		Where("platform = ? AND platform_id = ?", product.Platform, product.PlatformID).
		Count(&existing).Error; err != nil {
		return "", err
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "platform"}, {Name: "platform_id"}},
		DoUpdates: clause.AssignmentColumns(productUpdateColumns),
	}).Create(product).Error
	if err != nil {
		return "", err
	}

	if existing > 0 {
		return commerce.UpsertUpdated, nil
	}
	return commerce.UpsertInserted, nil
}

// FindByID finds a product by its surrogate ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*commerce.Product, error) {
	var product commerce.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByNaturalKey finds a product by (platform, platform_id)
func (r *GormProductRepository) FindByNaturalKey(ctx context.Context, platform commerce.Platform, platformID string) (*commerce.Product, error) {
	var product commerce.Product
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND platform_id = ?", platform, platformID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns a page of products matching the filter and the total match count
func (r *GormProductRepository) List(ctx context.Context, filter shared.Filter) ([]commerce.Product, int64, error) {
	query := r.applyProductFilters(r.db.WithContext(ctx).Model(&commerce.Product{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyOrdering(query, filter, map[string]bool{
		"title": true, "price": true, "quantity": true,
		"created_at": true, "updated_at": true,
	})
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var products []commerce.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) applyProductFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "platform":
			query = query.Where("platform = ?", value)
		case "min_price":
			query = query.Where("price >= ?", value)
		case "max_price":
			query = query.Where("price <= ?", value)
		case "min_quantity":
			query = query.Where("quantity >= ?", value)
		}
	}
	return query
}

// applyOrdering applies a whitelisted ORDER BY, falling back to updated_at DESC
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	column := "updated_at"
	if filter.OrderBy != "" && allowed[filter.OrderBy] {
		column = filter.OrderBy
	}
	dir := "DESC"
	if strings.ToLower(filter.OrderDir) == "asc" {
		dir = "ASC"
	}
	return query.Order(column + " " + dir)
}

// Ensure GormProductRepository implements commerce.ProductRepository
var _ commerce.ProductRepository = (*GormProductRepository)(nil)
