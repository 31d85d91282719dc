package auth

import "collabradoc/internal/domain/models"

// TokenVerifier validates a bearer token and extracts session claims.
type TokenVerifier interface {
	// VerifyToken returns the claims for a valid token, or
	// domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.SessionClaims, error)

	// Close releases resources held by the verifier
	Close() error
}

// TokenIssuer signs session tokens for locally authenticated users.
type TokenIssuer interface {
	// IssueToken returns a signed token for the user
	IssueToken(user *models.User) (string, error)
}
