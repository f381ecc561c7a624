package dto

import (
	"github.com/shopspring/decimal"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// SaleItemInput is one sale row as submitted by a terminal.
type SaleItemInput struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category" binding:"required,category"`
	Price    decimal.Decimal `json:"price"`
	Qty      int             `json:"qty" binding:"min=0"`
	AdHoc    bool            `json:"adHoc"`
}

// SaveSaleRequest persists a new per-visit sale.
type SaveSaleRequest struct {
	Market string          `json:"market" binding:"required"`
	Items  []SaleItemInput `json:"items" binding:"required,dive"`
}

// UpdateSaleRequest edits a saved sale's mutable field group.
type UpdateSaleRequest struct {
	Market string          `json:"market" binding:"required"`
	Items  []SaleItemInput `json:"items" binding:"required,dive"`
}

// SaleResponse is the wire shape of one saved sale record.
type SaleResponse struct {
	ID           string           `json:"id"`
	Market       string           `json:"market"`
	EmployeeName string           `json:"employeeName"`
	Date         string           `json:"date"`
	Timestamp    int64            `json:"timestamp"`
	Items        domain.SaleItems `json:"items"`
	Total        decimal.Decimal  `json:"total"`
}

// SaveSaleResponse returns the saved record plus the reset entry session.
type SaveSaleResponse struct {
	Record  SaleResponse     `json:"record"`
	Session domain.SaleItems `json:"session"`
}

// SessionResponse is a blank or reset entry session with its running total.
type SessionResponse struct {
	Items        domain.SaleItems `json:"items"`
	RunningTotal decimal.Decimal  `json:"runningTotal"`
}

// ToSaleItems converts submitted rows to domain rows.
func ToSaleItems(items []SaleItemInput) domain.SaleItems {
	out := make(domain.SaleItems, len(items))
	for i, it := range items {
		out[i] = domain.ProductItem{
			Name:     it.Name,
			Category: domain.Category(it.Category),
			Price:    it.Price,
			Qty:      it.Qty,
			AdHoc:    it.AdHoc,
		}
	}
	return out
}

// ToSaleResponse converts a domain record to its wire shape.
func ToSaleResponse(r *domain.SaleRecord) SaleResponse {
	return SaleResponse{
		ID:           r.ID,
		Market:       r.Market,
		EmployeeName: r.EmployeeName,
		Date:         r.Date,
		Timestamp:    r.Timestamp,
		Items:        r.Items,
		Total:        r.Total,
	}
}

// ToListSaleResponse converts a slice of records.
func ToListSaleResponse(records []domain.SaleRecord) []SaleResponse {
	res := make([]SaleResponse, len(records))
	for i := range records {
		res[i] = ToSaleResponse(&records[i])
	}
	return res
}
