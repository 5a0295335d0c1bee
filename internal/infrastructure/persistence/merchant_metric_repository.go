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

// GormMerchantMetricRepository implements commerce.MerchantMetricRepository using GORM
type GormMerchantMetricRepository struct {
	db *gorm.DB
}

// NewGormMerchantMetricRepository creates a new GormMerchantMetricRepository
func NewGormMerchantMetricRepository(db *gorm.DB) *GormMerchantMetricRepository {
	return &GormMerchantMetricRepository{db: db}
}

var metricUpdateColumns = []string{
	"merchant_name", "total_sales", "total_orders",
	"average_order_value", "total_customers", "total_products", "updated_at",
}

// Upsert inserts the metric or updates the mutable fields of the row sharing
// its (merchant_id, platform) key. created_at survives updates untouched.
func (r *GormMerchantMetricRepository) Upsert(ctx context.Context, metric *commerce.MerchantMetric) (commerce.UpsertOutcome, error) {
	now := time.Now().UTC()
	if metric.CreatedAt.IsZero() {
		metric.CreatedAt = now
	}
	metric.UpdatedAt = now

	var existing int64
	if err := r.db.WithContext(ctx).Model(&commerce.MerchantMetric{}).
		Where("merchant_id = ? AND platform = ?", metric.MerchantID, metric.Platform).
		Count(&existing).Error; err != nil {
		return "", err
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "merchant_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns(metricUpdateColumns),
	}).Create(metric).Error
	if err != nil {
		return "", err
	}

	if existing > 0 {
		return commerce.UpsertUpdated, nil
	}
	return commerce.UpsertInserted, nil
}

// FindByNaturalKey finds a metric row by (merchant_id, platform)
func (r *GormMerchantMetricRepository) FindByNaturalKey(ctx context.Context, merchantID string, platform commerce.Platform) (*commerce.MerchantMetric, error) {
	var metric commerce.MerchantMetric
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND platform = ?", merchantID, platform).
		First(&metric).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &metric, nil
}

// FindAllForPlatform returns every metric row for one platform, ordered by
// merchant_id so simulator runs walk rows in a stable order
func (r *GormMerchantMetricRepository) FindAllForPlatform(ctx context.Context, platform commerce.Platform) ([]commerce.MerchantMetric, error) {
	var metrics []commerce.MerchantMetric
	if err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("merchant_id ASC").
		Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// ExistsByMerchantID reports whether any platform has a row for the merchant id
func (r *GormMerchantMetricRepository) ExistsByMerchantID(ctx context.Context, merchantID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&commerce.MerchantMetric{}).
		Where("merchant_id = ?", merchantID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByMerchantName reports whether any platform has a row with the name
func (r *GormMerchantMetricRepository) ExistsByMerchantName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&commerce.MerchantMetric{}).
		Where("merchant_name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of metrics matching the filter and the total match count
func (r *GormMerchantMetricRepository) List(ctx context.Context, filter shared.Filter) ([]commerce.MerchantMetric, int64, error) {
	query := r.applyMetricFilters(r.db.WithContext(ctx).Model(&commerce.MerchantMetric{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyOrdering(query, filter, map[string]bool{
		"merchant_name": true, "total_sales": true, "total_orders": true,
		"created_at": true, "updated_at": true,
	})
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var metrics []commerce.MerchantMetric
	if err := query.Find(&metrics).Error; err != nil {
		return nil, 0, err
	}
	return metrics, total, nil
}

func (r *GormMerchantMetricRepository) applyMetricFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(merchant_name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "platform":
			query = query.Where("platform = ?", value)
		case "min_total_sales":
			query = query.Where("total_sales >= ?", value)
		}
	}
	return query
}

// Ensure GormMerchantMetricRepository implements commerce.MerchantMetricRepository
var _ commerce.MerchantMetricRepository = (*GormMerchantMetricRepository)(nil)
