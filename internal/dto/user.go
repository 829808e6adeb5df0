package dto

import (
	"time"

	"github.com/fazeltamana/Portal/internal/models"
)

// CreateStaffRequest is the admin payload for provisioning officers and
// department heads.
type CreateStaffRequest struct {
	FullName     string          `json:"full_name" validate:"required"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=6"`
	Role         models.UserRole `json:"role" validate:"required"`
	DepartmentID string          `json:"department_id" validate:"required"`
}

// UpdateProfileRequest carries the self-service profile fields.
type UpdateProfileRequest struct {
	FullName    string     `json:"full_name" validate:"required"`
	Phone       *string    `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}
