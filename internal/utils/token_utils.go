package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// ViewerClaims carries the viewer identity inside the session token, so
// every request reconstructs the viewer without a store round trip.
type ViewerClaims struct {
	jwt.RegisteredClaims
	Name            string `json:"name"`
	Role            string `json:"role"`
	CanViewAllSales bool   `json:"canViewAllSales"`
}

// Viewer rebuilds the viewer identity from validated claims.
func (c *ViewerClaims) Viewer() domain.Viewer {
	return domain.Viewer{
		Username:        c.Subject,
		Name:            c.Name,
		Role:            domain.Role(c.Role),
		CanViewAllSales: c.CanViewAllSales,
	}
}

// GenerateJWT mints a signed session token for the viewer.
func GenerateJWT(viewer domain.Viewer, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := ViewerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   viewer.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Name:            viewer.Name,
		Role:            string(viewer.Role),
		CanViewAllSales: viewer.CanViewAllSales,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string, validates its signature and
// standard claims, and returns the viewer claims.
func ParseAndValidateJWT(tokenString string, secretKey string) (*ViewerClaims, error) {
	claims := &ViewerClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
