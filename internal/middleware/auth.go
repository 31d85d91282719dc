package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"collabradoc/internal/auth"
	"collabradoc/internal/domain/services"
	"collabradoc/internal/httputil"
)

// publicPaths are reachable without a bearer token
var publicPaths = map[string]bool{
	"/health":          true,
	"/api/auth/signup": true,
	"/api/auth/login":  true,
}

// Auth middleware verifies the bearer token and attaches the resolved
// caller identity to the request context. Requests to public paths pass
// through untouched.
func Auth(verifier auth.TokenVerifier, authService services.AuthService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing or malformed Authorization header")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			identity, err := authService.ResolveIdentity(r.Context(), claims.GetUserID())
			if err != nil {
				logger.Warn("token resolved to unknown user", "user_id", claims.GetUserID())
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, identity))
		})
	}
}

// bearerToken extracts the token from an Authorization: Bearer header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
