package domain

// MaxAdHocPerCategory caps operator-added inventory rows per category.
const MaxAdHocPerCategory = 20

// InventoryItem is one counted stock row.
type InventoryItem struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Qty      int      `json:"qty"`
	AdHoc    bool     `json:"adHoc,omitempty"`
}

// InventoryRecord is one saved per-visit stock count. Only rows with a
// positive quantity are ever persisted.
type InventoryRecord struct {
	ID           string          `json:"id"`
	Market       string          `json:"market"`
	EmployeeName string          `json:"employeeName"`
	RecordedBy   string          `json:"recordedBy"`
	Date         string          `json:"date"`
	Timestamp    int64           `json:"timestamp"`
	Items        []InventoryItem `json:"items"`
}

// OwnerName implements the visibility filter contract.
func (r InventoryRecord) OwnerName() string { return r.EmployeeName }

// CountedItems returns the rows with quantity > 0, in original order.
func CountedItems(items []InventoryItem) []InventoryItem {
	out := make([]InventoryItem, 0, len(items))
	for _, it := range items {
		if it.Qty > 0 {
			out = append(out, it)
		}
	}
	return out
}
