package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the subset of identity-provider claims the backend reads.
// Works with Firebase and Supabase issued tokens: both put the user id in sub.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *TokenClaims) GetUserID() string {
	return c.Subject
}
