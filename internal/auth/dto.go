package auth

import "github.com/tvillarrealb/shopstack-backend/internal/users"

// RegisterRequest carries the fields needed to create an account. Roles may
// opt into "seller"; accounts always carry "user" and "admin" is never
// self-assignable.
type RegisterRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=8"`
	FirstName string   `json:"first_name" validate:"required,min=2"`
	LastName  string   `json:"last_name" validate:"required,min=2"`
	Phone     *string  `json:"phone" validate:"omitempty,min=7"`
	Roles     []string `json:"roles,omitempty" validate:"omitempty,dive,oneof=user seller"`
}

// UpdateEmailRequest changes the account's login email.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest rotates the account password after re-proving the
// current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// LoginRequest carries the credentials submitted at login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the minted token plus the user profile.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}

// RegisterResponse mirrors LoginResponse so clients are signed in right away.
type RegisterResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
