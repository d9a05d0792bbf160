package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one converted cart line. OrderedProductPrice is the
// effective price paid per unit, frozen at conversion time.
type OrderItem struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID           uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName         string          `gorm:"column:product_name;not null"`
	Quantity            int             `gorm:"column:quantity;not null"`
	Discount            decimal.Decimal `gorm:"column:discount;type:numeric(5,2);not null;default:0"`
	OrderedProductPrice decimal.Decimal `gorm:"column:ordered_product_price;type:numeric(12,2);not null"`
	Product             *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
