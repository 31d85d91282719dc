package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT claims structure for session tokens. The
// subject is the user id; email and name ride along so the HTTP layer
// can log a useful identity without a lookup.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}
