package models

// DashboardStats aggregates portal-wide figures for the admin dashboard.
type DashboardStats struct {
	Departments         []DepartmentRequestCount `json:"departments"`
	StatusCounts        []StatusCount            `json:"status_counts"`
	TotalCollectedCents int64                    `json:"total_collected_cents"`
}

// DepartmentRequestCount is one department's total request volume.
type DepartmentRequestCount struct {
	DepartmentID   string `db:"department_id" json:"department_id"`
	DepartmentName string `db:"department_name" json:"department_name"`
	TotalRequests  int64  `db:"total_requests" json:"total_requests"`
}

// StatusCount is the number of requests currently in a lifecycle status.
type StatusCount struct {
	Status RequestStatus `db:"status" json:"status"`
	Count  int64         `db:"count" json:"count"`
}
