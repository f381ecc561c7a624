package dto

// CatalogEntryRequest adds or renames one market or company name.
type CatalogEntryRequest struct {
	Name string `json:"name" binding:"required"`
}
