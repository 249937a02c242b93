package models

import "time"

// Roles accepted by the users.role check constraint.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleRetailer = "retailer"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleRetailer:
		return true
	}
	return false
}

// User represents an application account. The stored credential hash never
// leaves the repositories layer.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Role      string    `json:"role" db:"role"`
	Email     *string   `json:"email,omitempty" db:"email"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
