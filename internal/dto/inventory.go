package dto

import (
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// InventoryItemInput is one counted row as submitted by a terminal.
type InventoryItemInput struct {
	Name     string `json:"name"`
	Category string `json:"category" binding:"required,category"`
	Qty      int    `json:"qty" binding:"min=0"`
	AdHoc    bool   `json:"adHoc"`
}

// SaveInventoryRequest persists a new per-visit stock count.
type SaveInventoryRequest struct {
	Market string               `json:"market" binding:"required"`
	Items  []InventoryItemInput `json:"items" binding:"required,dive"`
}

// UpdateInventoryRequest applies quantity-only edits to a saved count. Rows
// are matched by position against the stored item list.
type UpdateInventoryRequest struct {
	Quantities []int `json:"quantities" binding:"required,dive,min=0"`
}

// InventoryResponse is the wire shape of one saved count record.
type InventoryResponse struct {
	ID           string                 `json:"id"`
	Market       string                 `json:"market"`
	EmployeeName string                 `json:"employeeName"`
	Date         string                 `json:"date"`
	Timestamp    int64                  `json:"timestamp"`
	Items        []domain.InventoryItem `json:"items"`
}

// SaveInventoryResponse returns the saved record plus the reset session.
type SaveInventoryResponse struct {
	Record  InventoryResponse      `json:"record"`
	Session []domain.InventoryItem `json:"session"`
}

// ToInventoryItems converts submitted rows to domain rows.
func ToInventoryItems(items []InventoryItemInput) []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(items))
	for i, it := range items {
		out[i] = domain.InventoryItem{
			Name:     it.Name,
			Category: domain.Category(it.Category),
			Qty:      it.Qty,
			AdHoc:    it.AdHoc,
		}
	}
	return out
}

// ToInventoryResponse converts a domain record to its wire shape.
func ToInventoryResponse(r *domain.InventoryRecord) InventoryResponse {
	return InventoryResponse{
		ID:           r.ID,
		Market:       r.Market,
		EmployeeName: r.EmployeeName,
		Date:         r.Date,
		Timestamp:    r.Timestamp,
		Items:        r.Items,
	}
}

// ToListInventoryResponse converts a slice of records.
func ToListInventoryResponse(records []domain.InventoryRecord) []InventoryResponse {
	res := make([]InventoryResponse, len(records))
	for i := range records {
		res[i] = ToInventoryResponse(&records[i])
	}
	return res
}
