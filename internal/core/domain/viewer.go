package domain

// Role classifies a viewer's authority level.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Viewer is the authenticated identity every ledger operation runs as.
// It is supplied by the auth middleware from the session token claims.
type Viewer struct {
	Username        string `json:"username"` // stable login id
	Name            string `json:"name"`     // display name used for record ownership
	Role            Role   `json:"role"`
	CanViewAllSales bool   `json:"canViewAllSales"`
}

// IsAdmin reports whether the viewer holds the admin role.
func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}
