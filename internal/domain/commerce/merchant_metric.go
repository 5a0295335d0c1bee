package commerce

import (
	"time"

	"github.com/shopspring/decimal"
)

// MerchantMetric is a snapshot of a merchant's aggregate performance on one
// platform. (merchant_id, platform) is the natural key: a merchant present on
// both storefronts is two independent rows sharing the same merchant_id and
// name.
type MerchantMetric struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	MerchantID        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_merchant_metrics_key,priority:1" json:"merchant_id"`
	Platform          Platform        `gorm:"type:varchar(20);not null;uniqueIndex:idx_merchant_metrics_key,priority:2" json:"platform"`
	MerchantName      string          `gorm:"type:varchar(200);not null;index" json:"merchant_name"`
	TotalSales        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_sales"`
	TotalOrders       int             `gorm:"not null;default:0" json:"total_orders"`
	AverageOrderValue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"average_order_value"`
	TotalCustomers    int             `gorm:"not null;default:0" json:"total_customers"`
	TotalProducts     int             `gorm:"not null;default:0" json:"total_products"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (MerchantMetric) TableName() string {
	return "merchant_metrics"
}
