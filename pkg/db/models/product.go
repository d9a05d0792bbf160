package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a seller listing with its live stock level.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SellerID     uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index"`
	CategoryID   *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Name         string          `gorm:"column:name;not null"`
	Description  *string         `gorm:"column:description"`
	ImageURL     *string         `gorm:"column:image_url"`
	Quantity     int             `gorm:"column:quantity;not null;default:0;check:quantity >= 0"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Discount     decimal.Decimal `gorm:"column:discount;type:numeric(5,2);not null;default:0"`
	SpecialPrice decimal.Decimal `gorm:"column:special_price;type:numeric(12,2);not null"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	Category     *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
