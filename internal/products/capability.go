package products

import (
	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

// Action names a mutation an actor may attempt on a product.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CanOperate decides whether the actor may perform the action on the product.
// Admins may operate on any product, sellers only on their own listings.
func CanOperate(actor types.Identity, product *models.Product, _ Action) bool {
	if product == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if actor.IsSeller() {
		return product.SellerID == actor.UserID
	}
	return false
}
