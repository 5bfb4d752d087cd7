package models

import (
	"strings"
	"time"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleEmployee       UserRole = "EMPLOYEE"
	RoleOperator       UserRole = "OPERATOR"
	RoleManager        UserRole = "MANAGER"
	RoleProjectManager UserRole = "PROJECT_MANAGER"
)

// NormalizeRole maps a raw role string onto the closed role set. Unknown
// values fall back to EMPLOYEE so they never gain review rights.
func NormalizeRole(raw string) UserRole {
	switch UserRole(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleOperator:
		return RoleOperator
	case RoleManager:
		return RoleManager
	case RoleProjectManager:
		return RoleProjectManager
	default:
		return RoleEmployee
	}
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"fullName"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Candidate is the slim directory row used for bonus assignment.
type Candidate struct {
	ID       string   `db:"id" json:"id"`
	Email    string   `db:"email" json:"email"`
	FullName string   `db:"full_name" json:"name"`
	Role     UserRole `db:"role" json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
