package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fazeltamana/Portal/internal/service"
	"github.com/fazeltamana/Portal/pkg/response"
)

// ExportHandler streams CSV listings and PDF receipts.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// RequestsCSV godoc
// @Summary Export requests as CSV
// @Description Export the caller's scoped request listing
// @Tags Exports
// @Produce text/csv
// @Param status query string false "Status filter"
// @Param date_from query string false "Submitted on or after (YYYY-MM-DD)"
// @Param date_to query string false "Submitted on or before (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/requests.csv [get]
func (h *ExportHandler) RequestsCSV(c *gin.Context) {
	data, err := h.service.RequestsCSV(c.Request.Context(), actorFromContext(c), queryFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("requests_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// Receipt godoc
// @Summary Download a payment receipt
// @Description Render the payment receipt for a request as PDF
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "Request id"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/{id}/receipt [get]
func (h *ExportHandler) Receipt(c *gin.Context) {
	data, err := h.service.PaymentReceipt(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt_%s.pdf"`, c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", data)
}
