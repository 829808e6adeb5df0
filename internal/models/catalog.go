package models

import "time"

// Department owns zero or more services. A request belongs to exactly one
// department transitively through its service, and never changes hands.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Service is an offering citizens apply for. BaseFeeCents of zero means the
// fee is assessed at submission time instead of being fixed up front.
type Service struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Name         string    `db:"name" json:"name"`
	BaseFeeCents int64     `db:"base_fee_cents" json:"base_fee_cents"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	DepartmentName string `db:"department_name" json:"department_name,omitempty"`
}
