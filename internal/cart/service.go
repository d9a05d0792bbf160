package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/internal/inventory"
	"github.com/tvillarrealb/shopstack-backend/internal/products"
	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the single cart per user and all of its line-item mutations.
// TotalPrice is recomputed from the line items after every mutation and the
// cart is deleted whenever it runs out of items.
type Service interface {
	AddItem(ctx context.Context, user types.Identity, productID uuid.UUID, qty int) (*CartView, error)
	AddQuantity(ctx context.Context, user types.Identity, productID uuid.UUID, qty int) (*CartView, error)
	ApplyOperation(ctx context.Context, user types.Identity, productID uuid.UUID, op enums.CartOperation) (*OperationResult, error)
	GetCart(ctx context.Context, user types.Identity) (*CartView, error)
	RemoveItem(ctx context.Context, user types.Identity, cartID, productID uuid.UUID) (*RemoveResult, error)
	DeleteEmptyCart(ctx context.Context, user types.Identity) error
}

type service struct {
	repo     Repository
	products products.Repository
	ledger   inventory.Ledger
	tx       txRunner
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, productsRepo products.Repository, ledger inventory.Ledger, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
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
	return &service{repo: repo, products: productsRepo, ledger: ledger, tx: tx}, nil
}

// AddItem creates the user's cart on demand and adds a product line to it.
// Adding a product already in the cart merges into the existing line so
// repeated clicks do not create duplicates.
func (s *service) AddItem(ctx context.Context, user types.Identity, productID uuid.UUID, qty int) (*CartView, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var view *CartView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := s.loadProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		cart, err := repo.FindByUser(ctx, user.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart, err = repo.Create(ctx, &models.Cart{UserID: user.UserID})
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if line := findLine(cart, productID); line != nil {
			merged := line.Quantity + qty
			if err := s.ledger.CheckAvailable(product, merged); err != nil {
				return err
			}
			line.Quantity = merged
			captureProductPrice(line, product)
			if err := repo.UpdateItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart item")
			}
		} else {
			if err := s.ledger.CheckAvailable(product, qty); err != nil {
				return err
			}
			item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}
			captureProductPrice(item, product)
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
		}

		if _, err := s.recomputeTotal(ctx, repo, cart.ID); err != nil {
			return err
		}
		view, err = s.loadView(ctx, repo, user.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AddQuantity raises the quantity of a line that must already be in the cart.
func (s *service) AddQuantity(ctx context.Context, user types.Identity, productID uuid.UUID, qty int) (*CartView, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var view *CartView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByUser(ctx, user.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeItemNotInCart, "product not in cart")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		line := findLine(cart, productID)
		if line == nil {
			return pkgerrors.New(pkgerrors.CodeItemNotInCart, "product not in cart")
		}

		product, err := s.loadProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		merged := line.Quantity + qty
		if err := s.ledger.CheckAvailable(product, merged); err != nil {
			return err
		}
		line.Quantity = merged
		captureProductPrice(line, product)
		if err := repo.UpdateItem(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}

		if _, err := s.recomputeTotal(ctx, repo, cart.ID); err != nil {
			return err
		}
		view, err = s.loadView(ctx, repo, user.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ApplyOperation applies a single increase, decrease or delete to a line.
// The line's price is re-captured from the product on every touch, a decrease
// past one removes the line, and a cart left with no lines is deleted.
func (s *service) ApplyOperation(ctx context.Context, user types.Identity, productID uuid.UUID, op enums.CartOperation) (*OperationResult, error) {
	if !op.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "unknown cart operation")
	}

	result := &OperationResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByUser(ctx, user.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		line := findLine(cart, productID)
		if line == nil {
			return pkgerrors.New(pkgerrors.CodeItemNotInCart, "product not in cart")
		}

		product, err := s.loadProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		captureProductPrice(line, product)

		switch op {
		case enums.CartOperationIncrease:
			if product.Quantity == 0 {
				return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("product %s is out of stock", product.Name))
			}
			if line.Quantity+1 > product.Quantity {
				return pkgerrors.New(pkgerrors.CodeStockLimit, fmt.Sprintf("only %d units of %s available", product.Quantity, product.Name))
			}
			line.Quantity++
			if err := repo.UpdateItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		case enums.CartOperationDecrease:
			if line.Quantity <= 1 {
				if err := repo.DeleteItem(ctx, line.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
				}
			} else {
				line.Quantity--
				if err := repo.UpdateItem(ctx, line); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
				}
			}
		case enums.CartOperationDelete:
			if err := repo.DeleteItem(ctx, line.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
			}
		}

		remaining, err := s.recomputeTotal(ctx, repo, cart.ID)
		if err != nil {
			return err
		}
		deleted, err := s.deleteIfEmpty(ctx, repo, cart.ID, remaining)
		if err != nil {
			return err
		}
		result.CartDeleted = deleted
		if deleted {
			return nil
		}
		result.Cart, err = s.loadView(ctx, repo, user.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetCart returns the user's cart, or an empty view when none exists.
func (s *service) GetCart(ctx context.Context, user types.Identity) (*CartView, error) {
	cart, err := s.repo.FindByUser(ctx, user.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EmptyCartView(), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return viewFromModel(cart), nil
}

// RemoveItem drops a product line from the cart, deleting the cart itself
// when that was the last line.
func (s *service) RemoveItem(ctx context.Context, user types.Identity, cartID, productID uuid.UUID) (*RemoveResult, error) {
	result := &RemoveResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByIDAndUser(ctx, cartID, user.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		line := findLine(cart, productID)
		if line == nil {
			return pkgerrors.New(pkgerrors.CodeItemNotInCart, "product not in cart")
		}
		if line.Product != nil {
			result.ProductName = line.Product.Name
		}
		if err := repo.DeleteItem(ctx, line.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}

		remaining, err := s.recomputeTotal(ctx, repo, cart.ID)
		if err != nil {
			return err
		}
		result.CartDeleted, err = s.deleteIfEmpty(ctx, repo, cart.ID, remaining)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteEmptyCart removes the user's cart only when it holds no items.
func (s *service) DeleteEmptyCart(ctx context.Context, user types.Identity) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByUser(ctx, user.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(cart.Items) > 0 {
			return pkgerrors.New(pkgerrors.CodeCartNotEmpty, fmt.Sprintf("cart still has %d items", len(cart.Items)))
		}
		if err := repo.Delete(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
		}
		return nil
	})
}

// recomputeTotal re-reads the line items and persists their sum as the cart
// total. It is the only writer of total_price; incremental patching drifts
// under partial failures. Returns the surviving line items.
func (s *service) recomputeTotal(ctx context.Context, repo Repository, cartID uuid.UUID) ([]models.CartItem, error) {
	items, err := repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if err := repo.UpdateTotal(ctx, cartID, total.Round(2)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart total")
	}
	return items, nil
}

func (s *service) deleteIfEmpty(ctx context.Context, repo Repository, cartID uuid.UUID, items []models.CartItem) (bool, error) {
	if len(items) > 0 {
		return false, nil
	}
	if err := repo.Delete(ctx, cartID); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete empty cart")
	}
	return true, nil
}

func (s *service) loadProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.WithTx(tx).FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) loadView(ctx context.Context, repo Repository, userID uuid.UUID) (*CartView, error) {
	cart, err := repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return viewFromModel(cart), nil
}

func findLine(cart *models.Cart, productID uuid.UUID) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}

// captureProductPrice re-captures the line's unit price and discount from the
// product so price drift is reflected the moment the line is touched.
func captureProductPrice(item *models.CartItem, product *models.Product) {
	item.Price = product.SpecialPrice
	item.Discount = product.Discount
}
