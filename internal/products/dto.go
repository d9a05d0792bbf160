package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput carries the fields a seller submits for a new listing.
type CreateProductInput struct {
	CategoryID  *uuid.UUID      `json:"category_id"`
	Name        string          `json:"name" validate:"required,min=3"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"image_url" validate:"omitempty,url"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Discount    decimal.Decimal `json:"discount"`
}

// UpdateProductInput carries partial updates to an existing listing.
type UpdateProductInput struct {
	CategoryID  *uuid.UUID       `json:"category_id"`
	Name        *string          `json:"name" validate:"omitempty,min=3"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *decimal.Decimal `json:"discount"`
	IsActive    *bool            `json:"is_active"`
}

// ProductView is the serialized product shape returned to clients.
type ProductView struct {
	ID           uuid.UUID       `json:"id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName *string         `json:"category_name,omitempty"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	SpecialPrice decimal.Decimal `json:"special_price"`
	IsActive     bool            `json:"is_active"`
}

// CreateCategoryInput names a new product category.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=2"`
}
