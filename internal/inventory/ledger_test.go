package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, qty int) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerID:     uuid.New(),
		Name:         "widget",
		Quantity:     qty,
		Price:        decimal.NewFromInt(20),
		SpecialPrice: decimal.NewFromInt(18),
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestCheckAvailable(t *testing.T) {
	t.Parallel()
	ledger := NewLedger()

	product := &models.Product{Name: "widget", Quantity: 3}
	if err := ledger.CheckAvailable(product, 3); err != nil {
		t.Fatalf("expected available, got %v", err)
	}

	err := ledger.CheckAvailable(&models.Product{Name: "widget", Quantity: 0}, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeOutOfStock) {
		t.Fatalf("expected OUT_OF_STOCK, got %v", err)
	}

	err = ledger.CheckAvailable(product, 4)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	err = ledger.CheckAvailable(nil, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for nil product, got %v", err)
	}

	err = ledger.CheckAvailable(product, 0)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for zero request, got %v", err)
	}
}

func TestDecrementGuardsAgainstOversell(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	product := seedProduct(t, db, 5)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Decrement(ctx, tx, product.ID, product.Name, 3)
	}); err != nil {
		t.Fatalf("decrement within stock: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", reloaded.Quantity)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Decrement(ctx, tx, product.ID, product.Name, 3)
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected INSUFFICIENT_STOCK on oversell, got %v", err)
	}

	if err := db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Quantity != 2 {
		t.Fatalf("failed decrement must not change stock, got %d", reloaded.Quantity)
	}
}

func TestDecrementValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()

	err := ledger.Decrement(context.Background(), db, uuid.New(), "widget", 0)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	err = ledger.Decrement(context.Background(), nil, uuid.New(), "widget", 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected DEPENDENCY_ERROR for nil tx, got %v", err)
	}
}

func TestRestock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	product := seedProduct(t, db, 1)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Restock(ctx, tx, product.ID, 4)
	}); err != nil {
		t.Fatalf("restock: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", reloaded.Quantity)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Restock(ctx, tx, uuid.New(), 1)
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for unknown product, got %v", err)
	}
}
