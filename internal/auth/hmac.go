package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"collabradoc/internal/domain"
	"collabradoc/internal/domain/models"
)

// HMACTokenService issues and verifies HS256 session tokens signed with
// a shared secret. This is the default when no external identity
// provider is configured.
type HMACTokenService struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewHMACTokenService creates a token service from the configured secret
func NewHMACTokenService(secret string, ttl time.Duration, logger *slog.Logger) (*HMACTokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HMACTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// IssueToken signs a session token for the user. The subject is the
// user id; email and display name ride along as informational claims.
func (s *HMACTokenService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: user.Email,
		Name:  user.DisplayName(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a session token and extracts its claims.
func (s *HMACTokenService) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks - only the method we sign
		// with is accepted
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close implements TokenVerifier; nothing to release.
func (s *HMACTokenService) Close() error {
	return nil
}
