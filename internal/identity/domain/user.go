package domain

import (
	"context"
	"strings"
	"time"
)

// Role types
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// AdminIDPrefix marks staff accounts by convention.
const AdminIDPrefix = "ADMIN-"

// User is a customer or staff member. Users are never deleted.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:'customer'"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user is staff.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

// LooksLikeAdminID applies the id naming convention used when no user record is available.
func LooksLikeAdminID(id string) bool {
	return strings.HasPrefix(id, AdminIDPrefix)
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
