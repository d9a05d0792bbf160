package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment stores pass-through gateway references supplied at checkout. No
// charge is attempted here, the fields are recorded as given.
type Payment struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PaymentMethod     string    `gorm:"column:payment_method;not null"`
	GatewayName       *string   `gorm:"column:gateway_name"`
	GatewayPaymentID  *string   `gorm:"column:gateway_payment_id"`
	GatewayStatus     *string   `gorm:"column:gateway_status"`
	GatewayResponse   *string   `gorm:"column:gateway_response"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
