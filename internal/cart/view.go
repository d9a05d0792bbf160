package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
)

// CartView is the client-facing shape of a cart.
type CartView struct {
	ID         uuid.UUID       `json:"id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []CartItemView  `json:"items"`
}

// CartItemView is one line of a cart with its captured pricing.
type CartItemView struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OperationResult reports the outcome of an increase/decrease/delete
// operation. Cart is nil when the operation emptied and removed the cart.
type OperationResult struct {
	Cart        *CartView `json:"cart,omitempty"`
	CartDeleted bool      `json:"cart_deleted"`
}

// RemoveResult reports the outcome of removing a line item.
type RemoveResult struct {
	ProductName string `json:"product_name"`
	CartDeleted bool   `json:"cart_deleted"`
}

// EmptyCartView is returned when the user has no cart yet.
func EmptyCartView() *CartView {
	return &CartView{TotalPrice: decimal.Zero, Items: []CartItemView{}}
}

func viewFromModel(cart *models.Cart) *CartView {
	view := &CartView{
		ID:         cart.ID,
		TotalPrice: cart.TotalPrice,
		Items:      make([]CartItemView, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		line := CartItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Discount:  item.Discount,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		view.Items = append(view.Items, line)
	}
	return view
}
