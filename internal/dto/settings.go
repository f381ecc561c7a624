package dto

// UpdateSettingsRequest overwrites the app-settings singleton.
type UpdateSettingsRequest struct {
	AppName       string          `json:"appName" binding:"required"`
	TickerText    string          `json:"tickerText"`
	TickerEnabled bool            `json:"tickerEnabled"`
	ContactNumber string          `json:"contactNumber"`
	Permissions   map[string]bool `json:"permissions"`
}
