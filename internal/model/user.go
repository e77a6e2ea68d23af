package model

import (
	"time"

	"github.com/google/uuid"
)

// Role determines which endpoints a user may call
type Role string

const (
	RoleVolunteer    Role = "volunteer"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
)

// ParseRole converts a raw claim value to a known role
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleVolunteer, RoleOrganization, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a platform account. Users are never hard-deleted;
// admins toggle status instead.
type User struct {
	Base
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	Password     string     `json:"password,omitempty" db:"-"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Phone        *string    `json:"phone" db:"phone"`
	Role         Role       `json:"role" db:"role"`
	Status       string     `json:"status" db:"status"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
}

// RegisterRequest represents registration parameters
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=volunteer organization"`
	Phone    string `json:"phone"`
}

// UpdateUserRequest represents profile update parameters
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UserFilters represents user search parameters
type UserFilters struct {
	Role   Role   `json:"role" form:"role"`
	Status string `json:"status" form:"status"`
}

// Organization is the profile owned by a user with the organization role.
// Exactly one per owning user.
type Organization struct {
	Base
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Website     *string   `json:"website" db:"website"`
}

// UpsertOrganizationRequest represents organization profile parameters
type UpsertOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Website     string `json:"website" binding:"omitempty,url"`
}
