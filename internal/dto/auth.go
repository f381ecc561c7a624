package dto

import "github.com/opsledger/ops_ledger_app/internal/core/domain"

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the session token and the viewer identity the
// terminal operates as.
type LoginResponse struct {
	Token  string        `json:"token"`
	Viewer domain.Viewer `json:"viewer"`
}
