package services

import (
	"context"

	"collabradoc/internal/domain/models"
)

// AuthService handles signup, login, and caller resolution
type AuthService interface {
	// Signup registers a new account. Returns domain.ErrConflict when
	// the email is taken.
	Signup(ctx context.Context, req *SignupRequest) (*models.User, error)

	// Login verifies credentials and issues a session token
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)

	// ResolveIdentity turns a verified user id into the caller identity
	// used for authorship snapshots
	ResolveIdentity(ctx context.Context, userID string) (*models.Identity, error)
}

// SignupRequest represents an account creation request
type SignupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the issued token and the authenticated user
type LoginResult struct {
	Token string          `json:"access_token"`
	User  models.Identity `json:"user"`
}
