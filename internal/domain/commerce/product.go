package commerce

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical record every platform-specific product payload
// converges to before persistence. (platform, platform_id) is the natural key:
// it maps to at most one row, and every write is either an insert of a new key
// or an update of an existing one.
type Product struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Platform   Platform        `gorm:"type:varchar(20);not null;uniqueIndex:idx_products_platform_key,priority:1" json:"platform"`
	PlatformID string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_platform_key,priority:2" json:"platform_id"`
	Title      string          `gorm:"type:varchar(200);not null" json:"title"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"`
	Currency   string          `gorm:"type:varchar(3);not null" json:"currency"`
	Quantity   int             `gorm:"not null;default:0" json:"quantity"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}
