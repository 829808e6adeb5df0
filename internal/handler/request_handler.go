package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fazeltamana/Portal/internal/dto"
	"github.com/fazeltamana/Portal/internal/models"
	"github.com/fazeltamana/Portal/internal/service"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
	"github.com/fazeltamana/Portal/pkg/response"
)

// RequestHandler wires HTTP endpoints to the request lifecycle service.
type RequestHandler struct {
	service *service.RequestService
}

// NewRequestHandler creates a new handler.
func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{service: svc}
}

// Create godoc
// @Summary Submit a service request
// @Description Submit a new application with optional supporting documents
// @Tags Requests
// @Accept mpfd
// @Produce json
// @Param service_id formData string true "Service identifier"
// @Param remarks formData string false "Applicant remarks"
// @Param payload formData string false "Service-specific JSON payload"
// @Param documents formData file false "Supporting documents"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	req := dto.CreateRequestRequest{
		ServiceID: c.PostForm("service_id"),
		Remarks:   c.PostForm("remarks"),
	}
	if payload := c.PostForm("payload"); payload != "" {
		req.Payload = []byte(payload)
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload"))
		return
	}
	for _, header := range form.File["documents"] {
		file, err := header.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable document upload"))
			return
		}
		content, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable document upload"))
			return
		}
		req.Documents = append(req.Documents, dto.DocumentUpload{
			FileName: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Content:  content,
		})
	}

	created, err := h.service.Create(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// List godoc
// @Summary List visible requests
// @Description List requests within the caller's scope, narrowed by optional filters
// @Tags Requests
// @Produce json
// @Param search query string false "Service or department name search"
// @Param citizen_name query string false "Citizen name search"
// @Param request_id query string false "Exact request id"
// @Param status query string false "Status filter (SUBMITTED, UNDER_REVIEW, APPROVED, REJECTED, PROCESSING, COMPLETED, ALL)"
// @Param service_id query string false "Service filter"
// @Param date_from query string false "Submitted on or after (YYYY-MM-DD)"
// @Param date_to query string false "Submitted on or before (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	query := queryFromContext(c)

	summaries, total, err := h.service.List(c.Request.Context(), actorFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: total}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize <= 0 || pagination.PageSize > 100 {
		pagination.PageSize = 20
	}
	response.JSON(c, http.StatusOK, summaries, pagination)
}

// Get godoc
// @Summary Get request detail
// @Description Full view of one request, including documents, payments and history
// @Tags Requests
// @Produce json
// @Param id path string true "Request id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	detail, err := h.service.GetDetail(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// StartReview godoc
// @Summary Begin reviewing a request
// @Description Move a submitted request into UNDER_REVIEW
// @Tags Requests
// @Produce json
// @Param id path string true "Request id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/{id}/review [post]
func (h *RequestHandler) StartReview(c *gin.Context) {
	if err := h.service.StartReview(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Decide godoc
// @Summary Decide a request
// @Description Approve or reject a request within the officer's department
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request id"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/{id}/decision [post]
func (h *RequestHandler) Decide(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	updated, err := h.service.Decide(c.Request.Context(), actorFromContext(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// DocumentLink godoc
// @Summary Issue a document download link
// @Description Issue a short-lived signed token for downloading an attachment
// @Tags Requests
// @Produce json
// @Param id path string true "Document id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/{id}/link [get]
func (h *RequestHandler) DocumentLink(c *gin.Context) {
	token, expiresAt, err := h.service.DocumentLink(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"token": token, "expires_at": expiresAt}, nil)
}

// DownloadDocument godoc
// @Summary Download a document
// @Description Stream a document blob referenced by a signed token
// @Tags Requests
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/download [get]
func (h *RequestHandler) DownloadDocument(c *gin.Context) {
	file, doc, err := h.service.OpenDocument(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	contentType := doc.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

func queryFromContext(c *gin.Context) *dto.RequestQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return &dto.RequestQuery{
		Search:      c.Query("search"),
		CitizenName: c.Query("citizen_name"),
		RequestID:   c.Query("request_id"),
		Status:      c.Query("status"),
		ServiceID:   c.Query("service_id"),
		DateFrom:    c.Query("date_from"),
		DateTo:      c.Query("date_to"),
		Page:        page,
		PageSize:    pageSize,
	}
}
