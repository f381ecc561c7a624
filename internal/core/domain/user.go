package domain

// User is a login account for one terminal operator. The password hash never
// leaves the server; everything else becomes the viewer claims on login.
type User struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	Role            Role   `json:"role"`
	CanViewAllSales bool   `json:"canViewAllSales"`
	PasswordHash    string `json:"passwordHash,omitempty"`
}

// Viewer projects the user onto the identity ledger operations run as.
func (u User) Viewer() Viewer {
	return Viewer{
		Username:        u.Username,
		Name:            u.Name,
		Role:            u.Role,
		CanViewAllSales: u.CanViewAllSales,
	}
}
