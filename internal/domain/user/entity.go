package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

// User represents a user account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsProvider returns true if user owns listings
func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}

// IsCustomer returns true if user books listings
func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// IsValidRole reports whether a registration role is allowed
func IsValidRole(role string) bool {
	return role == string(RoleCustomer) || role == string(RoleProvider)
}
