package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fazeltamana/Portal/internal/dto"
	"github.com/fazeltamana/Portal/internal/models"
	"github.com/fazeltamana/Portal/internal/repository"
	"github.com/fazeltamana/Portal/pkg/config"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
	"github.com/fazeltamana/Portal/pkg/storage"
)

type requestStore interface {
	CreateSubmission(ctx context.Context, params repository.CreateSubmissionParams) error
	GetByID(ctx context.Context, id string) (*repository.RequestRecord, error)
	Transition(ctx context.Context, params repository.TransitionParams) (models.RequestStatus, error)
	List(ctx context.Context, scope models.RequestScope, criteria models.RequestCriteria) ([]models.RequestSummary, int, error)
	GetDetail(ctx context.Context, id string) (*models.RequestDetail, error)
	GetDocument(ctx context.Context, documentID string) (*models.Document, error)
}

type serviceCatalog interface {
	GetService(ctx context.Context, id string) (*models.Service, error)
}

type feeAssessor interface {
	Assess(service *models.Service) int64
}

type blobStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type documentSigner interface {
	Generate(documentID, relPath string) (string, time.Time, error)
	Parse(token string) (documentID, relPath string, expiresAt time.Time, err error)
}

// RequestService implements the request lifecycle: citizen submission,
// officer review, and scoped listing. Authorization is checked on every
// operation before any I/O.
type RequestService struct {
	store    requestStore
	catalog  serviceCatalog
	fees     feeAssessor
	blobs    blobStore
	audits   auditRecorder
	signer   documentSigner
	uploads  config.UploadsConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRequestService wires the request service with its dependencies.
func NewRequestService(
	store requestStore,
	catalog serviceCatalog,
	fees feeAssessor,
	blobs blobStore,
	audits auditRecorder,
	signer documentSigner,
	uploads config.UploadsConfig,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		store:    store,
		catalog:  catalog,
		fees:     fees,
		blobs:    blobs,
		audits:   audits,
		signer:   signer,
		uploads:  uploads,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create submits a new service request on behalf of the acting citizen. The
// fee is assessed once here; the request, its documents and the settled
// payment are persisted atomically.
func (s *RequestService) Create(ctx context.Context, actor *models.Actor, req *dto.CreateRequestRequest) (*models.Request, error) {
	if err := Authorize(actor, models.RoleCitizen); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "service_id is required")
	}
	if err := s.checkUploads(req.Documents); err != nil {
		return nil, err
	}

	svc, err := s.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown service")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "load service")
	}
	if !svc.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "service is not open for applications")
	}

	fee := s.fees.Assess(svc)
	now := time.Now().UTC()

	documents := make([]models.Document, 0, len(req.Documents))
	for _, upload := range req.Documents {
		stored := storage.UploadName(upload.FileName, now)
		path, err := s.blobs.Save(stored, upload.Content)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "store document")
		}
		documents = append(documents, models.Document{
			FileName: upload.FileName,
			FilePath: path,
			MimeType: upload.MimeType,
		})
	}

	request := &models.Request{
		CitizenID:     actor.ID,
		ServiceID:     svc.ID,
		Status:        models.RequestStatusSubmitted,
		FeeCents:      fee,
		PaymentStatus: models.PaymentStatusPaid,
		SubmittedAt:   now,
		Payload:       req.Payload,
	}
	if req.Remarks != "" {
		remarks := req.Remarks
		request.Remarks = &remarks
	}
	payment := &models.Payment{
		AmountCents: fee,
		Status:      models.PaymentStatusSuccess,
		CreatedAt:   now,
	}

	if err := s.store.CreateSubmission(ctx, repository.CreateSubmissionParams{
		Request:   request,
		Documents: documents,
		Payment:   payment,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "create request")
	}

	s.recordAudit(ctx, actor.ID, models.AuditActionRequestCreate, "requests", request.ID)
	s.logger.Info("request submitted",
		zap.String("request_id", request.ID),
		zap.String("citizen_id", actor.ID),
		zap.String("service_id", svc.ID),
		zap.Int64("fee_cents", fee))
	return request, nil
}

// StartReview moves a submitted request into UNDER_REVIEW for the acting
// officer's department.
func (s *RequestService) StartReview(ctx context.Context, actor *models.Actor, requestID string) error {
	if err := Authorize(actor, models.RoleOfficer, models.RoleDeptHead); err != nil {
		return err
	}
	record, err := s.loadForReview(ctx, actor, requestID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.store.Transition(ctx, repository.TransitionParams{
		RequestID:    record.ID,
		FromStatuses: []models.RequestStatus{models.RequestStatusSubmitted},
		ToStatus:     models.RequestStatusUnderReview,
		ReviewerID:   actor.ID,
		ReviewedAt:   now,
		Notification: &models.Notification{
			UserID:    record.CitizenID,
			RequestID: &record.ID,
			Message:   fmt.Sprintf("Your request %s is now under review.", record.ID),
		},
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRequestFinalized):
		return appErrors.Clone(appErrors.ErrConflict, "request is not awaiting review")
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.ErrNotFound
	default:
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "start review")
	}
}

// Decide applies an officer's verdict. The transition, the history record and
// the citizen notification commit as one unit; a request another reviewer
// finalized first surfaces as a conflict with no side effects.
func (s *RequestService) Decide(ctx context.Context, actor *models.Actor, requestID string, verdict *dto.DecisionRequest) (*models.Request, error) {
	if err := Authorize(actor, models.RoleOfficer, models.RoleDeptHead); err != nil {
		return nil, err
	}
	toStatus, ok := verdict.Decision.Status()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be APPROVE or REJECT")
	}
	record, err := s.loadForReview(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	params := repository.TransitionParams{
		RequestID:    record.ID,
		FromStatuses: []models.RequestStatus{models.RequestStatusSubmitted, models.RequestStatusUnderReview},
		ToStatus:     toStatus,
		ReviewerID:   actor.ID,
		ReviewedAt:   now,
		Notification: &models.Notification{
			UserID:    record.CitizenID,
			RequestID: &record.ID,
			Message:   fmt.Sprintf("Your request %s has been %s.", record.ID, toStatus),
		},
	}
	if verdict.Comment != "" {
		comment := verdict.Comment
		params.Remarks = &comment
		params.Note = &comment
	}

	if _, err := s.store.Transition(ctx, params); err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestFinalized):
			return nil, appErrors.Clone(appErrors.ErrConflict, "request has already been finalized")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.ErrNotFound
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "apply decision")
		}
	}

	record.Status = toStatus
	record.ReviewedBy = &actor.ID
	record.ReviewedAt = &now
	if params.Remarks != nil {
		record.Remarks = params.Remarks
	}

	s.recordAudit(ctx, actor.ID, models.AuditActionRequestReview, "requests", record.ID)
	s.logger.Info("request reviewed",
		zap.String("request_id", record.ID),
		zap.String("reviewer_id", actor.ID),
		zap.String("status", string(toStatus)))
	return &record.Request, nil
}

// List returns the requests visible to the actor, narrowed by the optional
// query criteria. The role-derived scope always applies first.
func (s *RequestService) List(ctx context.Context, actor *models.Actor, query *dto.RequestQuery) ([]models.RequestSummary, int, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, 0, err
	}
	criteria, err := parseCriteria(query)
	if err != nil {
		return nil, 0, err
	}
	summaries, total, err := s.store.List(ctx, scope, criteria)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "list requests")
	}
	if summaries == nil {
		summaries = []models.RequestSummary{}
	}
	return summaries, total, nil
}

// GetDetail returns the full view of a request the actor is allowed to see.
// A request outside the actor's scope is indistinguishable from a missing one.
func (s *RequestService) GetDetail(ctx context.Context, actor *models.Actor, requestID string) (*models.RequestDetail, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, err
	}
	detail, err := s.store.GetDetail(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "load request")
	}
	if !inScope(scope, detail.Request.CitizenID, detail.DepartmentID) {
		return nil, appErrors.ErrNotFound
	}
	return detail, nil
}

// DocumentLink issues a short-lived signed token for downloading an
// attachment the actor may see.
func (s *RequestService) DocumentLink(ctx context.Context, actor *models.Actor, documentID string) (string, time.Time, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return "", time.Time{}, err
	}
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, appErrors.ErrNotFound
		}
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "load document")
	}
	record, err := s.store.GetByID(ctx, doc.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, appErrors.ErrNotFound
		}
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "load request")
	}
	if !inScope(scope, record.CitizenID, record.DepartmentID) {
		return "", time.Time{}, appErrors.ErrNotFound
	}
	token, expiresAt, err := s.signer.Generate(doc.ID, doc.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign document link")
	}
	return token, expiresAt, nil
}

// OpenDocument validates a signed token and opens the referenced blob. The
// token itself is the authorization: no session is needed to follow a link.
func (s *RequestService) OpenDocument(ctx context.Context, token string) (*os.File, *models.Document, error) {
	documentID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired document link")
	}
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.ErrNotFound
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "load document")
	}
	if doc.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired document link")
	}
	file, err := s.blobs.Open(doc.FilePath)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "document file missing")
	}
	return file, doc, nil
}

// loadForReview fetches a request for an officer mutation and enforces the
// department boundary. Unlike reads, a cross-department mutation is reported
// as forbidden: the officer was routed here on purpose and hiding the row
// would only confuse the audit trail.
func (s *RequestService) loadForReview(ctx context.Context, actor *models.Actor, requestID string) (*repository.RequestRecord, error) {
	record, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "load request")
	}
	if actor.DepartmentID == nil || *actor.DepartmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "officer has no department affiliation")
	}
	if record.DepartmentID != *actor.DepartmentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request belongs to another department")
	}
	return record, nil
}

func (s *RequestService) checkUploads(uploads []dto.DocumentUpload) error {
	for _, upload := range uploads {
		if upload.FileName == "" {
			return appErrors.Clone(appErrors.ErrValidation, "document file name is required")
		}
		if s.uploads.MaxFileSizeBytes > 0 && int64(len(upload.Content)) > s.uploads.MaxFileSizeBytes {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("document %s exceeds the size limit", upload.FileName))
		}
		if len(s.uploads.AllowedMIMEs) > 0 && !mimeAllowed(s.uploads.AllowedMIMEs, upload.MimeType) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("document type %s is not allowed", upload.MimeType))
		}
	}
	return nil
}

func (s *RequestService) recordAudit(ctx context.Context, userID, action, resource, resourceID string) {
	if s.audits == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
	}
	if err := s.audits.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

func inScope(scope models.RequestScope, citizenID, departmentID string) bool {
	if scope.Unrestricted {
		return true
	}
	if scope.CitizenID != "" {
		return scope.CitizenID == citizenID
	}
	if scope.DepartmentID != "" {
		return scope.DepartmentID == departmentID
	}
	return false
}

func mimeAllowed(allowed []string, mimeType string) bool {
	for _, m := range allowed {
		if strings.EqualFold(m, mimeType) {
			return true
		}
	}
	return false
}

// parseCriteria converts wire-level query strings into typed criteria. The
// legacy status aliases stay supported: PROCESSING means UNDER_REVIEW and
// COMPLETED covers both terminal statuses.
func parseCriteria(query *dto.RequestQuery) (models.RequestCriteria, error) {
	criteria := models.RequestCriteria{
		Search:      strings.TrimSpace(query.Search),
		CitizenName: strings.TrimSpace(query.CitizenName),
		RequestID:   strings.TrimSpace(query.RequestID),
		ServiceID:   strings.TrimSpace(query.ServiceID),
		Page:        query.Page,
		PageSize:    query.PageSize,
	}

	switch status := strings.ToUpper(strings.TrimSpace(query.Status)); status {
	case "", "ALL":
	case "PROCESSING":
		criteria.Statuses = []models.RequestStatus{models.RequestStatusUnderReview}
	case "COMPLETED":
		criteria.Statuses = []models.RequestStatus{models.RequestStatusApproved, models.RequestStatusRejected}
	case string(models.RequestStatusSubmitted), string(models.RequestStatusUnderReview),
		string(models.RequestStatusApproved), string(models.RequestStatusRejected):
		criteria.Statuses = []models.RequestStatus{models.RequestStatus(status)}
	default:
		return models.RequestCriteria{}, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
	}

	if query.DateFrom != "" {
		from, err := time.Parse("2006-01-02", query.DateFrom)
		if err != nil {
			return models.RequestCriteria{}, appErrors.Clone(appErrors.ErrValidation, "date_from must be YYYY-MM-DD")
		}
		criteria.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := time.Parse("2006-01-02", query.DateTo)
		if err != nil {
			return models.RequestCriteria{}, appErrors.Clone(appErrors.ErrValidation, "date_to must be YYYY-MM-DD")
		}
		criteria.DateTo = &to
	}
	if criteria.DateFrom != nil && criteria.DateTo != nil && criteria.DateTo.Before(*criteria.DateFrom) {
		return models.RequestCriteria{}, appErrors.Clone(appErrors.ErrValidation, "date_to must not precede date_from")
	}
	return criteria, nil
}
