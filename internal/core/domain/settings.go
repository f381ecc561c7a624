package domain

// AppSettings is the admin-editable singleton configuring the terminals.
type AppSettings struct {
	AppName       string          `json:"appName"`
	TickerText    string          `json:"tickerText"`
	TickerEnabled bool            `json:"tickerEnabled"`
	ContactNumber string          `json:"contactNumber"`
	Permissions   map[string]bool `json:"permissions"` // per-feature visibility flags
}

// DefaultAppSettings is returned whenever the settings singleton is unset.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		AppName:       "Ops Ledger",
		TickerEnabled: false,
		Permissions: map[string]bool{
			"sales":      true,
			"inventory":  true,
			"competitor": true,
			"leave":      true,
		},
	}
}
