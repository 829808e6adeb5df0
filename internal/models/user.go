package models

import "time"

// UserRole represents a role tag an account may hold. Accounts carry a set of
// roles, not a single value.
type UserRole string

const (
	RoleCitizen  UserRole = "CITIZEN"
	RoleOfficer  UserRole = "OFFICER"
	RoleDeptHead UserRole = "DEPT_HEAD"
	RoleAdmin    UserRole = "ADMIN"
)

// KnownRole reports whether the tag is part of the closed role set.
func KnownRole(role UserRole) bool {
	switch role {
	case RoleCitizen, RoleOfficer, RoleDeptHead, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents an account stored in the users table. Roles live in the
// users_roles join table and are loaded alongside.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	NationalID   *string    `db:"national_id" json:"national_id,omitempty"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	DepartmentID *string    `db:"department_id" json:"department_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	Roles []UserRole `db:"-" json:"roles"`
}

// Actor is the authenticated identity threaded through every core operation:
// id, role set, and optional department affiliation. Core services never read
// ambient session state; callers construct an Actor explicitly.
type Actor struct {
	ID           string
	Roles        []UserRole
	DepartmentID *string
}

// HasRole reports whether the actor carries the given role tag.
func (a *Actor) HasRole(role UserRole) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the actor's role set intersects the given tags.
func (a *Actor) HasAnyRole(roles ...UserRole) bool {
	for _, role := range roles {
		if a.HasRole(role) {
			return true
		}
	}
	return false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
