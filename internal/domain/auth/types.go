// Package auth defines the identity model for the storefront client.
package auth

// Role is the backend-assigned role of a user.
type Role string

const (
	// RoleAdmin grants access to the admin console.
	RoleAdmin Role = "ADMIN"
	// RoleUser is a regular storefront customer.
	RoleUser Role = "USER"
)

// User is the profile returned by the backend for an authenticated session.
type User struct {
	// ID is the backend identifier for the user.
	ID string `json:"id"`
	// Email is the login email address.
	Email string `json:"email"`
	// Name is the display name.
	Name string `json:"name"`
	// Role determines which areas of the storefront the user may enter.
	Role Role `json:"role"`
}

// IsAdmin reports whether the user holds the administrative role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the account creation request payload.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
