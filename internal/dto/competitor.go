package dto

import (
	"github.com/shopspring/decimal"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// TemplateItemInput is one survey row. Template rows may be incomplete, so
// only the category is required.
type TemplateItemInput struct {
	Category string          `json:"category" binding:"required,category"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

// PutTemplateRequest overwrites the viewer's whole template for a pair.
type PutTemplateRequest struct {
	Market  string              `json:"market" binding:"required"`
	Company string              `json:"company" binding:"required"`
	Items   []TemplateItemInput `json:"items" binding:"required,dive"`
}

// UpsertTemplateItemRequest adds or replaces one row by position. A nil
// index appends.
type UpsertTemplateItemRequest struct {
	Market  string            `json:"market" binding:"required"`
	Company string            `json:"company" binding:"required"`
	Index   *int              `json:"index" binding:"omitempty,min=0"`
	Item    TemplateItemInput `json:"item" binding:"required"`
}

// DeleteTemplateItemRequest removes one row by position.
type DeleteTemplateItemRequest struct {
	Market  string `json:"market" binding:"required"`
	Company string `json:"company" binding:"required"`
	Index   int    `json:"index" binding:"min=0"`
}

// PostReportRequest snapshots the viewer's template as a dated report.
type PostReportRequest struct {
	Market  string `json:"market" binding:"required"`
	Company string `json:"company" binding:"required"`
}

// ReportPriceUpdate replaces one posted row's price by position.
type ReportPriceUpdate struct {
	Index int             `json:"index" binding:"min=0"`
	Price decimal.Decimal `json:"price" binding:"required"`
}

// UpdateReportPricesRequest edits prices on a posted report.
type UpdateReportPricesRequest struct {
	Prices []ReportPriceUpdate `json:"prices" binding:"required,min=1,dive"`
}

// TemplateResponse is the wire shape of a working template.
type TemplateResponse struct {
	Market  string             `json:"market"`
	Company string             `json:"company"`
	Items   []domain.PriceItem `json:"items"`
}

// ReportResponse is the wire shape of a posted report.
type ReportResponse struct {
	ID           string             `json:"id"`
	Market       string             `json:"market"`
	Company      string             `json:"company"`
	EmployeeName string             `json:"employeeName"`
	Date         string             `json:"date"`
	Timestamp    int64              `json:"timestamp"`
	Items        []domain.PriceItem `json:"items"`
}

// ToPriceItems converts submitted rows to domain rows.
func ToPriceItems(items []TemplateItemInput) []domain.PriceItem {
	out := make([]domain.PriceItem, len(items))
	for i, it := range items {
		out[i] = domain.PriceItem{
			Category: domain.Category(it.Category),
			Name:     it.Name,
			Price:    it.Price,
		}
	}
	return out
}

// ToTemplateResponse converts a template to its wire shape.
func ToTemplateResponse(t *domain.CompetitorTemplate) TemplateResponse {
	return TemplateResponse{
		Market:  t.Market,
		Company: t.Company,
		Items:   t.Items,
	}
}

// ToReportResponse converts a posted report to its wire shape.
func ToReportResponse(r *domain.CompetitorReport) ReportResponse {
	return ReportResponse{
		ID:           r.ID,
		Market:       r.Market,
		Company:      r.Company,
		EmployeeName: r.EmployeeName,
		Date:         r.Date,
		Timestamp:    r.Timestamp,
		Items:        r.Items,
	}
}

// ToListReportResponse converts a slice of posted reports.
func ToListReportResponse(reports []domain.CompetitorReport) []ReportResponse {
	res := make([]ReportResponse, len(reports))
	for i := range reports {
		res[i] = ToReportResponse(&reports[i])
	}
	return res
}
