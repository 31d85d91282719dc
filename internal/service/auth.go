package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"collabradoc/internal/auth"
	"collabradoc/internal/config"
	"collabradoc/internal/domain"
	"collabradoc/internal/domain/models"
	"collabradoc/internal/domain/repositories"
	"collabradoc/internal/domain/services"
)

type authService struct {
	userRepo repositories.UserRepository
	issuer   auth.TokenIssuer
	limits   config.Limits
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	issuer auth.TokenIssuer,
	limits config.Limits,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
		limits:   limits,
		logger:   logger,
	}
}

// Signup registers a new account
func (s *authService) Signup(ctx context.Context, req *services.SignupRequest) (*models.User, error) {
	if err := s.validateSignupRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Guard against duplicates at the application level; the unique
	// index is the backstop for races
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      "email already exists",
			ResourceType: "user",
			ResourceID:   existing.ID,
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		FullName:     req.FullName,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "id", user.ID, "email", user.Email)

	return user, nil
}

// Login verifies credentials and issues a session token. A missing
// account and a wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*services.LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("incorrect email or password: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("incorrect email or password: %w", domain.ErrUnauthorized)
	}

	token, err := s.issuer.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "id", user.ID)

	return &services.LoginResult{
		Token: token,
		User:  identityFromUser(user),
	}, nil
}

// ResolveIdentity turns a verified user id into the caller identity
func (s *authService) ResolveIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Valid token for a vanished account
			return nil, fmt.Errorf("unknown user: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	identity := identityFromUser(user)
	return &identity, nil
}

func identityFromUser(user *models.User) models.Identity {
	return models.Identity{
		UserID: user.ID,
		Name:   user.DisplayName(),
		Email:  user.Email,
		Avatar: user.Avatar,
	}
}

// validateSignupRequest validates an account creation request
func (s *authService) validateSignupRequest(req *services.SignupRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email,
			validation.Required,
			is.EmailFormat,
			validation.Length(3, s.limits.MaxEmailLength),
		),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(s.limits.MinPasswordLength, 0),
		),
	)
}
