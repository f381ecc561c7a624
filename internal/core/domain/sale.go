package domain

import (
	"github.com/shopspring/decimal"
)

// ProductItem is one row of a sale session: a catalog (or ad-hoc) product
// with the price and quantity the operator keyed in. Unsaved rows are
// identified by their position in the session slice; no row id is persisted.
type ProductItem struct {
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Qty      int             `json:"qty"`
	AdHoc    bool            `json:"adHoc,omitempty"`
}

// SaleItems is an ordered sale row set with the two total semantics the
// ledger needs at different lifecycle stages.
type SaleItems []ProductItem

// RunningTotal is the pre-save display total: a plain sum of prices,
// quantity ignored. This mirrors the historical entry-screen behavior and is
// intentionally different from Total; do not "fix" one to match the other.
func (items SaleItems) RunningTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	return total
}

// Total is the persisted invariant total: sum of price multiplied by
// quantity over all rows. Every saved or edited record carries this value.
func (items SaleItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

// HasEntry reports whether any row has a price or quantity keyed in.
func (items SaleItems) HasEntry() bool {
	for _, it := range items {
		if it.Qty > 0 || it.Price.IsPositive() {
			return true
		}
	}
	return false
}

// Reset returns a copy of the rows with every price and quantity zeroed,
// keeping the row structure for the next entry session.
func (items SaleItems) Reset() SaleItems {
	out := make(SaleItems, len(items))
	for i, it := range items {
		it.Price = decimal.Zero
		it.Qty = 0
		out[i] = it
	}
	return out
}

// SaleRecord is one saved per-visit sales transaction.
type SaleRecord struct {
	ID           string          `json:"id"`
	Market       string          `json:"market"`
	EmployeeName string          `json:"employeeName"`
	RecordedBy   string          `json:"recordedBy"` // username of the author
	Date         string          `json:"date"`       // YYYY-MM-DD
	Timestamp    int64           `json:"timestamp"`  // unix millis at save
	Items        SaleItems       `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

// OwnerName implements the visibility filter contract.
func (r SaleRecord) OwnerName() string { return r.EmployeeName }
