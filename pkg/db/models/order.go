package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
)

// Order is an immutable snapshot created when a cart is converted. Only the
// Status column changes after creation.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Email       string            `gorm:"column:email;not null"`
	Status      enums.OrderStatus `gorm:"column:status;not null"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	AddressID   uuid.UUID         `gorm:"column:address_id;type:uuid;not null"`
	PaymentID   *uuid.UUID        `gorm:"column:payment_id;type:uuid"`
	OrderDate   time.Time         `gorm:"column:order_date;not null"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment     *Payment          `gorm:"foreignKey:PaymentID"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
