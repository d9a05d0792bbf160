package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxEmail  contextKey = "email"
	ctxRole   contextKey = "actor_role"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

// IdentityFromContext reassembles the authenticated actor seeded by Auth.
func IdentityFromContext(ctx context.Context) (types.Identity, bool) {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return types.Identity{}, false
	}
	role := enums.Role(RoleFromContext(ctx))
	if !role.IsValid() {
		return types.Identity{}, false
	}
	return types.Identity{
		UserID: userID,
		Email:  EmailFromContext(ctx),
		Role:   role,
	}, true
}
