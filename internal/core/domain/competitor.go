package domain

import (
	"github.com/shopspring/decimal"
)

// PriceItem is one surveyed competitor product row. Template rows may be
// incomplete (empty name or zero price); report rows never are.
type PriceItem struct {
	Category Category        `json:"category"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

// CompetitorTemplate is the persistent working copy of a price survey,
// scoped to exactly one (employee username, market, company) triple. Every
// mutation is written back to the store immediately.
type CompetitorTemplate struct {
	Username string      `json:"username"`
	Market   string      `json:"market"`
	Company  string      `json:"company"`
	Items    []PriceItem `json:"items"`
}

// ReportableItems filters the template to rows with a non-empty name and a
// positive price, preserving relative order. These are the only rows a
// posted report may contain.
func (t CompetitorTemplate) ReportableItems() []PriceItem {
	out := make([]PriceItem, 0, len(t.Items))
	for _, it := range t.Items {
		if it.Name != "" && it.Price.IsPositive() {
			out = append(out, it)
		}
	}
	return out
}

// CompetitorReport is a dated snapshot posted from a template. After posting
// only row prices may change; names and categories are fixed.
type CompetitorReport struct {
	ID           string      `json:"id"`
	Market       string      `json:"market"`
	Company      string      `json:"company"`
	EmployeeName string      `json:"employeeName"`
	RecordedBy   string      `json:"recordedBy"`
	Date         string      `json:"date"`
	Timestamp    int64       `json:"timestamp"`
	Items        []PriceItem `json:"items"`
}

// OwnerName implements the visibility filter contract. Reports are listable
// across employees, but the authorship rule for edits still needs the owner.
func (r CompetitorReport) OwnerName() string { return r.EmployeeName }
