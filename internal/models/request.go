package models

import (
	"encoding/json"
	"time"
)

// RequestStatus captures the lifecycle of a service request. Transitions only
// move forward: SUBMITTED → UNDER_REVIEW (optional) → APPROVED | REJECTED.
type RequestStatus string

const (
	RequestStatusSubmitted   RequestStatus = "SUBMITTED"
	RequestStatusUnderReview RequestStatus = "UNDER_REVIEW"
	RequestStatusApproved    RequestStatus = "APPROVED"
	RequestStatusRejected    RequestStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// Decision is an officer's verdict on a reviewed request.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// Status returns the terminal status a decision resolves to.
func (d Decision) Status() (RequestStatus, bool) {
	switch d {
	case DecisionApprove:
		return RequestStatusApproved, true
	case DecisionReject:
		return RequestStatusRejected, true
	default:
		return "", false
	}
}

// PaymentStatus marks whether the assessed fee has been settled.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

// Request is a citizen's service application. The fee is assessed exactly once
// at creation and is immutable afterward.
type Request struct {
	ID            string          `db:"id" json:"id"`
	CitizenID     string          `db:"citizen_id" json:"citizen_id"`
	ServiceID     string          `db:"service_id" json:"service_id"`
	Status        RequestStatus   `db:"status" json:"status"`
	FeeCents      int64           `db:"fee_cents" json:"fee_cents"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	SubmittedAt   time.Time       `db:"submitted_at" json:"submitted_at"`
	ReviewedBy    *string         `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time      `db:"reviewed_at" json:"reviewed_at,omitempty"`
	Remarks       *string         `db:"remarks" json:"remarks,omitempty"`
	Payload       json.RawMessage `db:"payload" json:"payload,omitempty"`
}

// Document is an attachment uploaded at submission time. Immutable afterward.
type Document struct {
	ID        string `db:"id" json:"id"`
	RequestID string `db:"request_id" json:"request_id"`
	FileName  string `db:"file_name" json:"file_name"`
	FilePath  string `db:"file_path" json:"file_path"`
	MimeType  string `db:"mime_type" json:"mime_type"`
}

// Payment records the settled fee for a request. Exactly one exists per
// request, created in the same transaction as the request itself.
type Payment struct {
	ID          string    `db:"id" json:"id"`
	RequestID   string    `db:"request_id" json:"request_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// PaymentStatusSuccess is the only payment row status in the current design:
// fees settle synchronously with submission.
const PaymentStatusSuccess = "SUCCESS"

// RequestHistory is one record of the append-only transition log.
type RequestHistory struct {
	ID         string        `db:"id" json:"id"`
	RequestID  string        `db:"request_id" json:"request_id"`
	FromStatus RequestStatus `db:"from_status" json:"from_status"`
	ToStatus   RequestStatus `db:"to_status" json:"to_status"`
	ChangedBy  string        `db:"changed_by" json:"changed_by"`
	Note       *string       `db:"note" json:"note,omitempty"`
	ChangedAt  time.Time     `db:"changed_at" json:"changed_at"`
}

// RequestSummary is the joined listing row surfaced by scoped queries.
type RequestSummary struct {
	ID             string        `db:"id" json:"id"`
	Status         RequestStatus `db:"status" json:"status"`
	FeeCents       int64         `db:"fee_cents" json:"fee_cents"`
	PaymentStatus  PaymentStatus `db:"payment_status" json:"payment_status"`
	SubmittedAt    time.Time     `db:"submitted_at" json:"submitted_at"`
	CitizenName    string        `db:"citizen_name" json:"citizen_name"`
	ServiceName    string        `db:"service_name" json:"service_name"`
	DepartmentName string        `db:"department_name" json:"department_name"`
}

// RequestDetail is the full view of a single request.
type RequestDetail struct {
	Request        Request          `json:"request"`
	ServiceName    string           `json:"service_name"`
	DepartmentID   string           `json:"department_id"`
	DepartmentName string           `json:"department_name"`
	CitizenName    string           `json:"citizen_name"`
	Documents      []Document       `json:"documents"`
	Payments       []Payment        `json:"payments"`
	History        []RequestHistory `json:"history"`
}

// RequestScope is the non-optional restriction derived from the actor's role
// set. It is applied before any caller-supplied criteria and no criterion can
// widen it.
type RequestScope struct {
	CitizenID    string
	DepartmentID string
	Unrestricted bool
}

// RequestCriteria are the composable, all-optional predicates ANDed onto the
// scope. Zero values impose no constraint.
type RequestCriteria struct {
	Search      string
	CitizenName string
	RequestID   string
	Statuses    []RequestStatus
	ServiceID   string
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	PageSize    int
}
