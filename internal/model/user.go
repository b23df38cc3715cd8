package model

import (
	"fmt"
	"time"
)

// User represents an account with a role. Accounts are deactivated rather
// than deleted, so audit references stay resolvable.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedDate  time.Time  `json:"created_date"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Roles.
const (
	RoleMember        = "member"
	RoleAdmin         = "admin"
	RoleQuartermaster = "quartermaster"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleMember, RoleAdmin, RoleQuartermaster:
		return true
	}
	return false
}

// UserUpdate is a partial account update. Nil fields are left untouched.
type UserUpdate struct {
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Empty reports whether the update would change nothing.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.FullName == nil && u.Role == nil && u.IsActive == nil
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
