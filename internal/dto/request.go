package dto

import (
	"encoding/json"

	"github.com/fazeltamana/Portal/internal/models"
)

// DocumentUpload carries one attachment received at submission time.
type DocumentUpload struct {
	FileName string
	MimeType string
	Content  []byte
}

// CreateRequestRequest is the citizen application payload.
type CreateRequestRequest struct {
	ServiceID string          `json:"service_id" validate:"required"`
	Remarks   string          `json:"remarks"`
	Payload   json.RawMessage `json:"payload"`

	Documents []DocumentUpload `json:"-"`
}

// DecisionRequest captures an officer's verdict and optional comment.
type DecisionRequest struct {
	Decision models.Decision `json:"decision" validate:"required"`
	Comment  string          `json:"comment"`
}

// RequestQuery mirrors the supported listing criteria. Every field is
// optional; the role-derived scope is applied regardless.
type RequestQuery struct {
	Search      string
	CitizenName string
	RequestID   string
	Status      string
	ServiceID   string
	DateFrom    string
	DateTo      string
	Page        int
	PageSize    int
}
