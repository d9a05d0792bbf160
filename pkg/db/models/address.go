package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a shipping destination owned by a single user.
type Address struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Street    string    `gorm:"column:street;not null"`
	Building  *string   `gorm:"column:building"`
	City      string    `gorm:"column:city;not null"`
	State     string    `gorm:"column:state;not null"`
	Country   string    `gorm:"column:country;not null"`
	Pincode   string    `gorm:"column:pincode;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
