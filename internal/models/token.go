package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims of an access token. UserID mirrors the subject so that
// tokens minted by older clients carrying only "id" still resolve.
type TokenClaims struct {
	UserID string `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// Principal returns the user identifier carried by the token.
func (c *TokenClaims) Principal() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
