package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	"github.com/tvillarrealb/shopstack-backend/pkg/pagination"
)

// SellerItemRow joins one snapshot line with its order's id and buyer email,
// scanned flat for seller-side aggregation.
type SellerItemRow struct {
	OrderID             uuid.UUID
	Email               string
	Quantity            int
	OrderedProductPrice decimal.Decimal
}

// Repository exposes persistence operations for orders and their snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	ListContainingProducts(ctx context.Context, productIDs []uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	ListItemRowsByProducts(ctx context.Context, productIDs []uuid.UUID) ([]SellerItemRow, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items", "Payment").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// FindByID loads an order with its item snapshots and payment record.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	normalized := params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Preload("Items").
		Preload("Payment").
		Order("order_date DESC").
		Limit(normalized.Limit).
		Offset(normalized.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListContainingProducts returns orders holding at least one line for any of
// the given products, newest first. Used for the seller order listing.
func (r *repository) ListContainingProducts(ctx context.Context, productIDs []uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	if len(productIDs) == 0 {
		return nil, 0, nil
	}
	normalized := params.Normalize()
	matching := r.db.Model(&models.OrderItem{}).
		Select("order_id").
		Where("product_id IN ?", productIDs)
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("id IN (?)", matching)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Preload("Items").
		Preload("Payment").
		Order("order_date DESC").
		Limit(normalized.Limit).
		Offset(normalized.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListItemRowsByProducts returns every snapshot line for the given products
// together with the owning order's id and buyer email.
func (r *repository) ListItemRowsByProducts(ctx context.Context, productIDs []uuid.UUID) ([]SellerItemRow, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []SellerItemRow
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_items.order_id, orders.email, order_items.quantity, order_items.ordered_product_price").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id IN ?", productIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
