package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
)

// OrderView is the client-facing shape of a completed order.
type OrderView struct {
	ID          uuid.UUID         `json:"id"`
	Email       string            `json:"email"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	AddressID   uuid.UUID         `json:"address_id"`
	OrderDate   time.Time         `json:"order_date"`
	Items       []OrderItemView   `json:"items"`
	Payment     *PaymentView      `json:"payment,omitempty"`
}

// OrderItemView is one frozen line of an order.
type OrderItemView struct {
	ProductID           uuid.UUID       `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Quantity            int             `json:"quantity"`
	Discount            decimal.Decimal `json:"discount"`
	OrderedProductPrice decimal.Decimal `json:"ordered_product_price"`
}

// PaymentView echoes the gateway references recorded at checkout.
type PaymentView struct {
	ID               uuid.UUID `json:"id"`
	PaymentMethod    string    `json:"payment_method"`
	GatewayName      *string   `json:"gateway_name,omitempty"`
	GatewayPaymentID *string   `json:"gateway_payment_id,omitempty"`
	GatewayStatus    *string   `json:"gateway_status,omitempty"`
	GatewayResponse  *string   `json:"gateway_response,omitempty"`
}

// SellerOrderView narrows an order to the lines belonging to one seller.
// SellerTotal sums only those lines; TotalAmount still reflects the whole
// order.
type SellerOrderView struct {
	OrderView
	SellerTotal decimal.Decimal `json:"seller_total"`
}

// SellerStatsView aggregates a seller's sales across all converted orders.
type SellerStatsView struct {
	TotalProducts  int64           `json:"total_products"`
	TotalOrders    int64           `json:"total_orders"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalCustomers int64           `json:"total_customers"`
}

func viewFromModel(order *models.Order) *OrderView {
	view := &OrderView{
		ID:          order.ID,
		Email:       order.Email,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		AddressID:   order.AddressID,
		OrderDate:   order.OrderDate,
		Items:       make([]OrderItemView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderItemView{
			ProductID:           item.ProductID,
			ProductName:         item.ProductName,
			Quantity:            item.Quantity,
			Discount:            item.Discount,
			OrderedProductPrice: item.OrderedProductPrice,
		})
	}
	if order.Payment != nil {
		view.Payment = &PaymentView{
			ID:               order.Payment.ID,
			PaymentMethod:    order.Payment.PaymentMethod,
			GatewayName:      order.Payment.GatewayName,
			GatewayPaymentID: order.Payment.GatewayPaymentID,
			GatewayStatus:    order.Payment.GatewayStatus,
			GatewayResponse:  order.Payment.GatewayResponse,
		}
	}
	return view
}

func sellerViewFromModel(order *models.Order, owned map[uuid.UUID]struct{}) *SellerOrderView {
	view := viewFromModel(order)
	filtered := make([]OrderItemView, 0, len(view.Items))
	total := decimal.Zero
	for _, item := range view.Items {
		if _, ok := owned[item.ProductID]; !ok {
			continue
		}
		filtered = append(filtered, item)
		total = total.Add(item.OrderedProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	view.Items = filtered
	return &SellerOrderView{OrderView: *view, SellerTotal: total.Round(2)}
}
