package services

import (
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// Owned is implemented by every record attributable to one employee.
type Owned interface {
	OwnerName() string
}

// FilterVisible returns the subset of records the viewer may see, preserving
// relative order. Admins always see everything; the canViewAllSales flag
// widens visibility only where the calling ledger opts in (sales and
// inventory). Matching is by employee display name, kept for compatibility
// with the historical data; authorship checks use the stable username
// instead (see CanMutate).
func FilterVisible[T Owned](records []T, viewer domain.Viewer, honorViewAllFlag bool) []T {
	if viewer.IsAdmin() || (honorViewAllFlag && viewer.CanViewAllSales) {
		return records
	}
	visible := make([]T, 0, len(records))
	for _, r := range records {
		if r.OwnerName() == viewer.Name {
			visible = append(visible, r)
		}
	}
	return visible
}

// CanMutate reports whether the viewer may edit or delete a record recorded
// by the given username: admins and the original author only.
func CanMutate(viewer domain.Viewer, recordedBy string) bool {
	return viewer.IsAdmin() || viewer.Username == recordedBy
}
