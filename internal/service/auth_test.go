package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"collabradoc/internal/auth"
	"collabradoc/internal/config"
	"collabradoc/internal/domain"
	"collabradoc/internal/domain/services"
)

func newAuthTestEnv(t *testing.T) (*authService, *auth.HMACTokenService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewHMACTokenService("test-secret-test-secret-test1234", time.Hour, logger)
	if err != nil {
		t.Fatalf("NewHMACTokenService() error = %v", err)
	}

	users := newFakeUserRepo(&fakeClock{})
	svc := NewAuthService(users, tokens, config.MustLimits(), logger).(*authService)
	return svc, tokens
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthTestEnv(t)

	tests := []struct {
		name    string
		req     *services.SignupRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  &services.SignupRequest{Email: "ada@example.com", Password: "correct-horse", FullName: strPtr("Ada")},
		},
		{
			name:    "missing email",
			req:     &services.SignupRequest{Password: "correct-horse"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "malformed email",
			req:     &services.SignupRequest{Email: "not-an-email", Password: "correct-horse"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "short password",
			req:     &services.SignupRequest{Email: "bob@example.com", Password: "short"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Signup(ctx, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Signup() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Signup() error = %v", err)
			}
			if user.ID == "" {
				t.Error("Signup() returned user without id")
			}
			if user.PasswordHash == tt.req.Password {
				t.Error("Signup() stored the password in plaintext")
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthTestEnv(t)

	if _, err := svc.Signup(ctx, &services.SignupRequest{Email: "ada@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// Same address, different case
	_, err := svc.Signup(ctx, &services.SignupRequest{Email: "Ada@Example.com", Password: "correct-horse"})
	var conflictErr *domain.ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("Signup() duplicate error = %v, want ConflictError", err)
	}
	if conflictErr.ResourceType != "user" {
		t.Errorf("ConflictError.ResourceType = %q, want user", conflictErr.ResourceType)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthTestEnv(t)

	user, err := svc.Signup(ctx, &services.SignupRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
		FullName: strPtr("Ada Lovelace"),
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	result, err := svc.Login(ctx, &services.LoginRequest{Email: "ADA@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.UserID != user.ID {
		t.Errorf("Login() user id = %q, want %q", result.User.UserID, user.ID)
	}
	if result.User.Name != "Ada Lovelace" {
		t.Errorf("Login() name = %q, want Ada Lovelace", result.User.Name)
	}

	// The issued token verifies and carries the account id
	claims, err := tokens.VerifyToken(result.Token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.GetUserID() != user.ID {
		t.Errorf("token subject = %q, want %q", claims.GetUserID(), user.ID)
	}

	// Wrong password and unknown account fail identically
	_, wrongPass := svc.Login(ctx, &services.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	_, unknown := svc.Login(ctx, &services.LoginRequest{Email: "ghost@example.com", Password: "correct-horse"})
	if !errors.Is(wrongPass, domain.ErrUnauthorized) || !errors.Is(unknown, domain.ErrUnauthorized) {
		t.Errorf("Login() failures = %v / %v, want ErrUnauthorized for both", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Error("Login() failure messages differ between wrong password and unknown account")
	}
}

func TestResolveIdentity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthTestEnv(t)

	user, err := svc.Signup(ctx, &services.SignupRequest{Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	identity, err := svc.ResolveIdentity(ctx, user.ID)
	if err != nil {
		t.Fatalf("ResolveIdentity() error = %v", err)
	}
	// No full name set, so the email doubles as the display name
	if identity.Name != "ada@example.com" {
		t.Errorf("ResolveIdentity() name = %q, want the email address", identity.Name)
	}

	if _, err := svc.ResolveIdentity(ctx, newUserID()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("ResolveIdentity() unknown user error = %v, want ErrUnauthorized", err)
	}
}
