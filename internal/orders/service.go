package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/internal/address"
	"github.com/tvillarrealb/shopstack-backend/internal/cart"
	"github.com/tvillarrealb/shopstack-backend/internal/inventory"
	"github.com/tvillarrealb/shopstack-backend/internal/products"
	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
	"github.com/tvillarrealb/shopstack-backend/pkg/pagination"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PlaceOrderInput carries the checkout payload. Gateway fields are recorded
// as given, no charge is attempted.
type PlaceOrderInput struct {
	AddressID        uuid.UUID `json:"address_id" validate:"required"`
	PaymentMethod    string    `json:"payment_method" validate:"required,max=64"`
	GatewayName      *string   `json:"gateway_name,omitempty"`
	GatewayPaymentID *string   `json:"gateway_payment_id,omitempty"`
	GatewayStatus    *string   `json:"gateway_status,omitempty"`
	GatewayResponse  *string   `json:"gateway_response,omitempty"`
}

// Service converts carts into orders and drives the order lifecycle.
type Service interface {
	PlaceOrder(ctx context.Context, user types.Identity, input PlaceOrderInput) (*OrderView, error)
	ListUserOrders(ctx context.Context, user types.Identity, params pagination.Params) (*pagination.Page[OrderView], error)
	GetOrder(ctx context.Context, user types.Identity, orderID uuid.UUID) (*OrderView, error)
	Cancel(ctx context.Context, user types.Identity, orderID uuid.UUID) error
	UpdateStatus(ctx context.Context, actor types.Identity, orderID uuid.UUID, newStatus enums.OrderStatus) error
	ListSellerOrders(ctx context.Context, actor types.Identity, params pagination.Params) (*pagination.Page[SellerOrderView], error)
	GetSellerOrder(ctx context.Context, actor types.Identity, orderID uuid.UUID) (*SellerOrderView, error)
	SellerStats(ctx context.Context, actor types.Identity) (*SellerStatsView, error)
}

type service struct {
	repo      Repository
	carts     cart.Repository
	addresses address.Repository
	products  products.Repository
	ledger    inventory.Ledger
	tx        txRunner
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, carts cart.Repository, addresses address.Repository, productsRepo products.Repository, ledger inventory.Ledger, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		carts:     carts,
		addresses: addresses,
		products:  productsRepo,
		ledger:    ledger,
		tx:        tx,
	}, nil
}

// PlaceOrder converts the user's cart into an order, payment record and item
// snapshots, decrements inventory per line and clears the cart. Everything
// runs in one transaction; a stock failure on any line rolls back the whole
// conversion.
func (s *service) PlaceOrder(ctx context.Context, user types.Identity, input PlaceOrderInput) (*OrderView, error) {
	if input.PaymentMethod == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}
	if input.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}

	var view *OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		userCart, err := cartRepo.FindByUser(ctx, user.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(userCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items")
		}

		addr, err := s.addresses.WithTx(tx).FindByID(ctx, input.AddressID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}
		if addr.UserID != user.UserID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}

		repo := s.repo.WithTx(tx)
		payment, err := repo.CreatePayment(ctx, &models.Payment{
			PaymentMethod:    input.PaymentMethod,
			GatewayName:      input.GatewayName,
			GatewayPaymentID: input.GatewayPaymentID,
			GatewayStatus:    input.GatewayStatus,
			GatewayResponse:  input.GatewayResponse,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		order, err := repo.Create(ctx, &models.Order{
			UserID:      user.UserID,
			Email:       user.Email,
			Status:      enums.OrderStatusPlaced,
			TotalAmount: userCart.TotalPrice,
			AddressID:   addr.ID,
			PaymentID:   &payment.ID,
			OrderDate:   time.Now().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		// Snapshot the lines before touching them so the iteration is not
		// affected by the cart mutations below.
		snapshot := make([]models.CartItem, len(userCart.Items))
		copy(snapshot, userCart.Items)

		orderItems := make([]models.OrderItem, 0, len(snapshot))
		productIDs := make([]uuid.UUID, 0, len(snapshot))
		for _, line := range snapshot {
			name := ""
			if line.Product != nil {
				name = line.Product.Name
			}
			if err := s.ledger.Decrement(ctx, tx, line.ProductID, name, line.Quantity); err != nil {
				return err
			}
			orderItems = append(orderItems, models.OrderItem{
				OrderID:             order.ID,
				ProductID:           line.ProductID,
				ProductName:         name,
				Quantity:            line.Quantity,
				Discount:            line.Discount,
				OrderedProductPrice: line.Price,
			})
			productIDs = append(productIDs, line.ProductID)
		}
		if err := repo.CreateItems(ctx, orderItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := s.clearConvertedLines(ctx, cartRepo, userCart.ID, productIDs); err != nil {
			return err
		}

		placed, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		view = viewFromModel(placed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListUserOrders returns the caller's orders newest first.
func (s *service) ListUserOrders(ctx context.Context, user types.Identity, params pagination.Params) (*pagination.Page[OrderView], error) {
	rows, total, err := s.repo.ListByUser(ctx, user.UserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	views := make([]OrderView, 0, len(rows))
	for i := range rows {
		views = append(views, *viewFromModel(&rows[i]))
	}
	page := pagination.NewPage(views, params, total)
	return &page, nil
}

// GetOrder returns one order for its owner or an admin.
func (s *service) GetOrder(ctx context.Context, user types.Identity, orderID uuid.UUID) (*OrderView, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.UserID && !user.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return viewFromModel(order), nil
}

// Cancel sets the order to Canceled when the status machine still allows it
// and returns the reserved units to stock. Status flip and restock share one
// transaction so a failed restock leaves the order alone.
func (s *service) Cancel(ctx context.Context, user types.Identity, orderID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != user.UserID && !user.IsAdmin() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
		if !order.Status.Cancelable() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order in status %q cannot be canceled", order.Status))
		}
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCanceled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		for _, item := range order.Items {
			err := s.ledger.Restock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return err
			}
			// A product deleted since the order was placed has nothing to
			// restock.
		}
		return nil
	})
}

// UpdateStatus moves an order along the fulfillment lifecycle. Sellers may
// only act on orders containing their products and may only mark them
// Shipped; any other transition needs an admin.
func (s *service) UpdateStatus(ctx context.Context, actor types.Identity, orderID uuid.UUID, newStatus enums.OrderStatus) error {
	if !newStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeInvalidOperation, "unknown order status")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if !actor.IsSeller() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only sellers may update order status")
		}
		owned, err := s.sellerOwnsAnyItem(ctx, actor.UserID, order)
		if err != nil {
			return err
		}
		if !owned {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order contains none of your products")
		}
		if newStatus != enums.OrderStatusShipped {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "sellers may only mark orders as shipped")
		}
	}

	if order.Status.Terminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order in status %q admits no further transitions", order.Status))
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, newStatus); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return nil
}

// ListSellerOrders returns orders containing at least one of the seller's
// products, newest first, with the item list narrowed to those products.
func (s *service) ListSellerOrders(ctx context.Context, actor types.Identity, params pagination.Params) (*pagination.Page[SellerOrderView], error) {
	ids, owned, err := s.sellerProducts(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		page := pagination.NewPage([]SellerOrderView{}, params, 0)
		return &page, nil
	}
	rows, total, err := s.repo.ListContainingProducts(ctx, ids, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller orders")
	}
	views := make([]SellerOrderView, 0, len(rows))
	for i := range rows {
		views = append(views, *sellerViewFromModel(&rows[i], owned))
	}
	page := pagination.NewPage(views, params, total)
	return &page, nil
}

// GetSellerOrder returns one order narrowed to the seller's lines, refusing
// orders that contain none of their products.
func (s *service) GetSellerOrder(ctx context.Context, actor types.Identity, orderID uuid.UUID) (*SellerOrderView, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	_, owned, err := s.sellerProducts(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	view := sellerViewFromModel(order, owned)
	if len(view.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order contains none of your products")
	}
	return view, nil
}

// SellerStats aggregates the seller's catalog size, converted orders, sales
// revenue and distinct customers.
func (s *service) SellerStats(ctx context.Context, actor types.Identity) (*SellerStatsView, error) {
	ids, _, err := s.sellerProducts(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	stats := &SellerStatsView{
		TotalProducts: int64(len(ids)),
		TotalSales:    decimal.Zero,
	}
	if len(ids) == 0 {
		return stats, nil
	}

	rows, err := s.repo.ListItemRowsByProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate seller items")
	}
	orderIDs := make(map[uuid.UUID]struct{})
	customers := make(map[string]struct{})
	sales := decimal.Zero
	for _, row := range rows {
		orderIDs[row.OrderID] = struct{}{}
		customers[row.Email] = struct{}{}
		sales = sales.Add(row.OrderedProductPrice.Mul(decimal.NewFromInt(int64(row.Quantity))))
	}
	stats.TotalOrders = int64(len(orderIDs))
	stats.TotalCustomers = int64(len(customers))
	stats.TotalSales = sales.Round(2)
	return stats, nil
}

func (s *service) sellerProducts(ctx context.Context, sellerID uuid.UUID) ([]uuid.UUID, map[uuid.UUID]struct{}, error) {
	ids, err := s.products.ListIDsBySeller(ctx, sellerID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller products")
	}
	owned := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		owned[id] = struct{}{}
	}
	return ids, owned, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) sellerOwnsAnyItem(ctx context.Context, sellerID uuid.UUID, order *models.Order) (bool, error) {
	_, owned, err := s.sellerProducts(ctx, sellerID)
	if err != nil {
		return false, err
	}
	for _, item := range order.Items {
		if _, ok := owned[item.ProductID]; ok {
			return true, nil
		}
	}
	return false, nil
}

// clearConvertedLines removes exactly the converted lines, reconciles the
// total for any lines that slipped in meanwhile and drops the cart when it
// ends up empty.
func (s *service) clearConvertedLines(ctx context.Context, cartRepo cart.Repository, cartID uuid.UUID, productIDs []uuid.UUID) error {
	if err := cartRepo.DeleteItemsByProducts(ctx, cartID, productIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart items")
	}
	remaining, err := cartRepo.ListItems(ctx, cartID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list remaining cart items")
	}
	if len(remaining) == 0 {
		if err := cartRepo.Delete(ctx, cartID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete emptied cart")
		}
		return nil
	}
	total := decimal.Zero
	for _, item := range remaining {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if err := cartRepo.UpdateTotal(ctx, cartID, total.Round(2)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart total")
	}
	return nil
}
