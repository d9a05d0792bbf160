package types

import (
	"github.com/google/uuid"

	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
)

// Identity is the authenticated actor handed to services. It is always passed
// explicitly, never read from globals.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
}

// IsAdmin reports whether the actor carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == enums.RoleAdmin
}

// IsSeller reports whether the actor carries the seller role.
func (i Identity) IsSeller() bool {
	return i.Role == enums.RoleSeller
}
