package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fazeltamana/Portal/internal/dto"
	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
	"github.com/fazeltamana/Portal/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type receiptRenderer interface {
	RenderReceipt(title string, lines []export.ReceiptLine) ([]byte, error)
}

// ExportService renders request listings as CSV and payment receipts as PDF.
// Both exports reuse the scoped read paths, so an export can never show more
// than the actor's own listing would.
type ExportService struct {
	requests *RequestService
	csv      csvRenderer
	pdf      receiptRenderer
}

// NewExportService wires the export service.
func NewExportService(requests *RequestService, csv csvRenderer, pdf receiptRenderer) *ExportService {
	return &ExportService{requests: requests, csv: csv, pdf: pdf}
}

// exportPageSize is the listing page size the CSV export walks with.
const exportPageSize = 100

// RequestsCSV renders the actor's scoped request listing as CSV. The export
// pages through the listing until it has the whole result set.
func (s *ExportService) RequestsCSV(ctx context.Context, actor *models.Actor, query *dto.RequestQuery) ([]byte, error) {
	exportQuery := *query
	exportQuery.Page = 1
	exportQuery.PageSize = exportPageSize

	var summaries []models.RequestSummary
	for {
		page, total, err := s.requests.List(ctx, actor, &exportQuery)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, page...)
		if len(page) == 0 || len(summaries) >= total {
			break
		}
		exportQuery.Page++
	}

	dataset := export.Dataset{
		Headers: []string{"Request ID", "Citizen", "Service", "Department", "Status", "Fee", "Payment", "Submitted At"},
	}
	for _, summary := range summaries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Request ID":   summary.ID,
			"Citizen":      summary.CitizenName,
			"Service":      summary.ServiceName,
			"Department":   summary.DepartmentName,
			"Status":       string(summary.Status),
			"Fee":          formatCents(summary.FeeCents),
			"Payment":      string(summary.PaymentStatus),
			"Submitted At": summary.SubmittedAt.Format(time.RFC3339),
		})
	}

	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
	}
	return data, nil
}

// PaymentReceipt renders the receipt PDF for a request the actor may see.
func (s *ExportService) PaymentReceipt(ctx context.Context, actor *models.Actor, requestID string) ([]byte, error) {
	detail, err := s.requests.GetDetail(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if len(detail.Payments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no payment recorded for this request")
	}
	payment := detail.Payments[0]

	lines := []export.ReceiptLine{
		{Label: "Receipt No.", Value: payment.ID},
		{Label: "Request ID", Value: detail.Request.ID},
		{Label: "Citizen", Value: detail.CitizenName},
		{Label: "Service", Value: detail.ServiceName},
		{Label: "Department", Value: detail.DepartmentName},
		{Label: "Amount", Value: formatCents(payment.AmountCents)},
		{Label: "Payment Status", Value: payment.Status},
		{Label: "Paid At", Value: payment.CreatedAt.Format("2006-01-02 15:04:05 MST")},
	}
	data, err := s.pdf.RenderReceipt("Payment Receipt", lines)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render payment receipt")
	}
	return data, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
