package domain

// Category tags every product or price row with the tissue line it belongs to.
type Category string

const (
	CategoryFacial  Category = "FACIAL"
	CategoryKitchen Category = "KITCHEN"
	CategoryToilet  Category = "TOILET"
	CategoryDolphin Category = "DOLPHIN"
)

// Categories lists the fixed product lines in display order.
var Categories = []Category{CategoryFacial, CategoryKitchen, CategoryToilet, CategoryDolphin}

// ProductCatalog maps each fixed category to its compiled-in product names.
// These lists seed blank sale and inventory sessions; they are not editable
// at runtime.
var ProductCatalog = map[Category][]string{
	CategoryFacial: {
		"Facial 550",
		"Facial 400",
		"Facial 300",
		"Facial 200",
		"Facial 150 x2",
		"Facial 100 x4",
	},
	CategoryKitchen: {
		"Kitchen Towel Single",
		"Kitchen Towel Twin",
		"Kitchen Towel Jumbo",
	},
	CategoryToilet: {
		"Toilet Roll Single",
		"Toilet Roll x2",
		"Toilet Roll x4",
		"Toilet Roll x12",
	},
	CategoryDolphin: {
		"Dolphin Napkin 100",
		"Dolphin Napkin 200",
		"Dolphin Maxi Roll",
	},
}

// Fallback lists used to seed the remote catalog collections when empty.
var (
	DefaultMarkets = []string{
		"Central Market",
		"North Souq",
		"Harbor Wholesale",
		"Eastern Outlets",
	}
	DefaultCompanies = []string{
		"Fine",
		"Selpak",
		"Sanita",
		"Primo",
	}
)

// CatalogEntry is one editable market or company name. Each entry carries its
// own store key so it can be renamed or deleted without disturbing siblings.
type CatalogEntry struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
