package enums

import "fmt"

// OrderStatus tracks where an order sits in its fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Order Placed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusInTransit OrderStatus = "In Transit"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCanceled  OrderStatus = "Canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Cancelable reports whether a buyer may still cancel an order in this status.
func (s OrderStatus) Cancelable() bool {
	switch s {
	case OrderStatusShipped, OrderStatusInTransit, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusCanceled:
		return false
	}
	return true
}

// Terminal reports whether the status admits no further seller transitions.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
