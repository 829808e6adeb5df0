package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fazeltamana/Portal/internal/models"
)

// ErrRequestFinalized signals a guarded transition found the request already
// in a terminal status. Callers surface it as a conflict.
var ErrRequestFinalized = errors.New("request status already finalized")

// RequestRepository persists service requests and their lifecycle.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs the repository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// RequestRecord joins a request row with its owning department.
type RequestRecord struct {
	models.Request
	DepartmentID string `db:"department_id"`
}

// CreateSubmissionParams groups the submission atomic unit: the request, its
// documents, and the settled payment commit together or not at all.
type CreateSubmissionParams struct {
	Request   *models.Request
	Documents []models.Document
	Payment   *models.Payment
}

// CreateSubmission persists a request, its documents and its payment in one
// transaction.
func (r *RequestRepository) CreateSubmission(ctx context.Context, params CreateSubmissionParams) (err error) {
	req := params.Request
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = models.RequestStatusSubmitted
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin submission transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertRequest = `INSERT INTO requests
	(id, citizen_id, service_id, status, fee_cents, payment_status, submitted_at, reviewed_by, reviewed_at, remarks, payload)
	VALUES (:id, :citizen_id, :service_id, :status, :fee_cents, :payment_status, :submitted_at, :reviewed_by, :reviewed_at, :remarks, :payload)`
	if _, err = tx.NamedExecContext(ctx, insertRequest, req); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	const insertDocument = `INSERT INTO documents (id, request_id, file_name, file_path, mime_type)
	VALUES ($1, $2, $3, $4, $5)`
	for i := range params.Documents {
		doc := &params.Documents[i]
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		doc.RequestID = req.ID
		if _, err = tx.ExecContext(ctx, insertDocument, doc.ID, doc.RequestID, doc.FileName, doc.FilePath, doc.MimeType); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}

	payment := params.Payment
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.RequestID = req.ID
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = req.SubmittedAt
	}
	const insertPayment = `INSERT INTO payments (id, request_id, amount_cents, status, created_at)
	VALUES ($1, $2, $3, $4, $5)`
	if _, err = tx.ExecContext(ctx, insertPayment, payment.ID, payment.RequestID, payment.AmountCents, payment.Status, payment.CreatedAt); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}
	return nil
}

// GetByID fetches a request with its owning department id.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*RequestRecord, error) {
	const query = `SELECT r.id, r.citizen_id, r.service_id, r.status, r.fee_cents, r.payment_status,
       r.submitted_at, r.reviewed_by, r.reviewed_at, r.remarks, r.payload, s.department_id
	FROM requests r
	JOIN services s ON s.id = r.service_id
	WHERE r.id = $1`
	var record RequestRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// TransitionParams groups the review atomic unit: the guarded status update,
// the history append, and the citizen notification commit together.
type TransitionParams struct {
	RequestID    string
	FromStatuses []models.RequestStatus
	ToStatus     models.RequestStatus
	ReviewerID   string
	ReviewedAt   time.Time
	Remarks      *string
	Note         *string
	Notification *models.Notification
}

// Transition applies a guarded status change. The row is locked, the current
// status re-checked against FromStatuses, and the update, history record and
// notification committed as one unit. Returns sql.ErrNoRows for an unknown
// request and ErrRequestFinalized when a concurrent writer got there first.
func (r *RequestRepository) Transition(ctx context.Context, params TransitionParams) (from models.RequestStatus, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transition transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current models.RequestStatus
	const lockQuery = `SELECT status FROM requests WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, lockQuery, params.RequestID); err != nil {
		return "", err
	}
	if !statusIn(current, params.FromStatuses) {
		err = ErrRequestFinalized
		return "", err
	}

	const updateQuery = `UPDATE requests
	SET status = $1, reviewed_by = $2, reviewed_at = $3, remarks = COALESCE($4, remarks)
	WHERE id = $5`
	if _, err = tx.ExecContext(ctx, updateQuery, params.ToStatus, params.ReviewerID, params.ReviewedAt, params.Remarks, params.RequestID); err != nil {
		return "", fmt.Errorf("update request status: %w", err)
	}

	const insertHistory = `INSERT INTO request_history (id, request_id, from_status, to_status, changed_by, note, changed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err = tx.ExecContext(ctx, insertHistory, uuid.NewString(), params.RequestID, current, params.ToStatus, params.ReviewerID, params.Note, params.ReviewedAt); err != nil {
		return "", fmt.Errorf("insert history record: %w", err)
	}

	if params.Notification != nil {
		n := params.Notification
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = params.ReviewedAt
		}
		const insertNotification = `INSERT INTO notifications (id, user_id, request_id, message, created_at, is_read)
	VALUES ($1, $2, $3, $4, $5, false)`
		if _, err = tx.ExecContext(ctx, insertNotification, n.ID, n.UserID, n.RequestID, n.Message, n.CreatedAt); err != nil {
			return "", fmt.Errorf("insert notification: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transition: %w", err)
	}
	return current, nil
}

// List returns scoped request summaries with a total count. The scope is
// rendered into the WHERE clause ahead of any criteria and cannot be widened
// by them.
func (r *RequestRepository) List(ctx context.Context, scope models.RequestScope, criteria models.RequestCriteria) ([]models.RequestSummary, int, error) {
	const base = ` FROM requests r
	JOIN users u ON u.id = r.citizen_id
	JOIN services s ON s.id = r.service_id
	JOIN departments d ON d.id = s.department_id`

	conditions := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)

	if !scope.Unrestricted {
		switch {
		case scope.CitizenID != "":
			args = append(args, scope.CitizenID)
			conditions = append(conditions, fmt.Sprintf("r.citizen_id = $%d", len(args)))
		case scope.DepartmentID != "":
			args = append(args, scope.DepartmentID)
			conditions = append(conditions, fmt.Sprintf("s.department_id = $%d", len(args)))
		default:
			// A restricted scope with no owner matches nothing.
			conditions = append(conditions, "1 = 0")
		}
	}

	if criteria.Search != "" {
		args = append(args, "%"+strings.ToLower(criteria.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%d OR LOWER(d.name) LIKE $%d)", len(args), len(args)))
	}
	if criteria.CitizenName != "" {
		args = append(args, "%"+strings.ToLower(criteria.CitizenName)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(u.full_name) LIKE $%d", len(args)))
	}
	if criteria.RequestID != "" {
		args = append(args, criteria.RequestID)
		conditions = append(conditions, fmt.Sprintf("r.id = $%d", len(args)))
	}
	if len(criteria.Statuses) > 0 {
		placeholders := make([]string, len(criteria.Statuses))
		for i, status := range criteria.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("r.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if criteria.ServiceID != "" {
		args = append(args, criteria.ServiceID)
		conditions = append(conditions, fmt.Sprintf("s.id = $%d", len(args)))
	}
	if criteria.DateFrom != nil {
		args = append(args, criteria.DateFrom.Format("2006-01-02"))
		conditions = append(conditions, fmt.Sprintf("r.submitted_at::date >= $%d", len(args)))
	}
	if criteria.DateTo != nil {
		args = append(args, criteria.DateTo.Format("2006-01-02"))
		conditions = append(conditions, fmt.Sprintf("r.submitted_at::date <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+base+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	query := `SELECT r.id, r.status, r.fee_cents, r.payment_status, r.submitted_at,
       u.full_name AS citizen_name, s.name AS service_name, d.name AS department_name` +
		base + where +
		fmt.Sprintf(" ORDER BY r.submitted_at DESC, r.id DESC LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var summaries []models.RequestSummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	return summaries, total, nil
}

// GetDetail loads the full request view: joined names, documents, payments
// and the transition history.
func (r *RequestRepository) GetDetail(ctx context.Context, id string) (*models.RequestDetail, error) {
	const query = `SELECT r.id, r.citizen_id, r.service_id, r.status, r.fee_cents, r.payment_status,
       r.submitted_at, r.reviewed_by, r.reviewed_at, r.remarks, r.payload,
       s.name AS service_name, s.department_id, d.name AS department_name, u.full_name AS citizen_name
	FROM requests r
	JOIN services s ON s.id = r.service_id
	JOIN departments d ON d.id = s.department_id
	JOIN users u ON u.id = r.citizen_id
	WHERE r.id = $1`

	var row struct {
		models.Request
		ServiceName    string `db:"service_name"`
		DepartmentID   string `db:"department_id"`
		DepartmentName string `db:"department_name"`
		CitizenName    string `db:"citizen_name"`
	}
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}

	detail := &models.RequestDetail{
		Request:        row.Request,
		ServiceName:    row.ServiceName,
		DepartmentID:   row.DepartmentID,
		DepartmentName: row.DepartmentName,
		CitizenName:    row.CitizenName,
	}

	const docQuery = `SELECT id, request_id, file_name, file_path, mime_type FROM documents WHERE request_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &detail.Documents, docQuery, id); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	const payQuery = `SELECT id, request_id, amount_cents, status, created_at FROM payments WHERE request_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &detail.Payments, payQuery, id); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	const historyQuery = `SELECT id, request_id, from_status, to_status, changed_by, note, changed_at
	FROM request_history WHERE request_id = $1 ORDER BY changed_at, id`
	if err := r.db.SelectContext(ctx, &detail.History, historyQuery, id); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return detail, nil
}

// GetDocument fetches a single attachment row.
func (r *RequestRepository) GetDocument(ctx context.Context, documentID string) (*models.Document, error) {
	const query = `SELECT id, request_id, file_name, file_path, mime_type FROM documents WHERE id = $1`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, documentID); err != nil {
		return nil, err
	}
	return &doc, nil
}

func statusIn(status models.RequestStatus, allowed []models.RequestStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
