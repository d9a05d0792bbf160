package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
)

// Ledger guards product stock. Decrement and Restock run inside the caller's
// transaction so a failed order conversion leaves stock untouched.
type Ledger interface {
	CheckAvailable(product *models.Product, requested int) error
	Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, productName string, qty int) error
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type ledger struct{}

// NewLedger exposes the default stock ledger implementation.
func NewLedger() Ledger {
	return ledger{}
}

// CheckAvailable validates a requested quantity against the product's current
// stock without mutating anything. Zero stock and insufficient stock are
// distinct failures so callers can surface different messages.
func (ledger) CheckAvailable(product *models.Product, requested int) error {
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if requested <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "requested quantity must be positive")
	}
	if product.Quantity == 0 {
		return pkgerrors.New(pkgerrors.CodeOutOfStock,
			fmt.Sprintf("product %s is not available", product.Name))
	}
	if product.Quantity < requested {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("only %d units of %s available", product.Quantity, product.Name))
	}
	return nil
}

// Decrement atomically reduces stock, failing when the conditional update
// matches no row. The quantity guard in the WHERE clause is what prevents
// oversell under concurrent conversions.
func (ledger) Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, productName string, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "decrement quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock decrement")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity = quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for %s", productName))
	}
	return nil
}

// Restock returns units to a product, used when a conversion is unwound.
func (ledger) Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "restock quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for restock")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity = quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found for restock")
	}
	return nil
}
