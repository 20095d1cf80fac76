package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Admin struct {
	ID                  int64      `json:"id" db:"id"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	FullName            *string    `json:"full_name" db:"full_name"`
	Role                AdminRole  `json:"role" db:"role"`
	IsActive            bool       `json:"is_active" db:"is_active"`
	FailedLoginAttempts int        `json:"-" db:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"-" db:"locked_until"`
	LastLogin           *time.Time `json:"last_login" db:"last_login"`
	LastLoginIP         *string    `json:"last_login_ip" db:"last_login_ip"`
	CreatedBy           *int64     `json:"created_by" db:"created_by"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

type AdminRole string

const (
	RoleAdmin      AdminRole = "admin"
	RoleSuperAdmin AdminRole = "super_admin"
)

func (r AdminRole) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// PublicView is the subset of fields a login response exposes. The password
// hash never leaves the model even with the json:"-" tag in place.
func (a *Admin) PublicView() map[string]any {
	return map[string]any{
		"id":        a.ID,
		"email":     a.Email,
		"full_name": a.FullName,
		"role":      a.Role,
	}
}

type Claims struct {
	jwt.RegisteredClaims
	AdminID  int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}
