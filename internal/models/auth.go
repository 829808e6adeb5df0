package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// RegisterRequest is the citizen self-registration payload.
type RegisterRequest struct {
	FullName    string     `json:"full_name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	NationalID  *string    `json:"national_id,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Roles        []UserRole `json:"roles"`
	DepartmentID *string    `json:"department_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. The role set and
// department affiliation travel in the token so handlers can build an Actor
// without a store round trip.
type JWTClaims struct {
	UserID       string     `json:"user_id"`
	Roles        []UserRole `json:"roles"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	DepartmentID *string    `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts token claims into the explicit Actor value core services take.
func (c *JWTClaims) Actor() *Actor {
	if c == nil {
		return nil
	}
	return &Actor{ID: c.UserID, Roles: c.Roles, DepartmentID: c.DepartmentID}
}
