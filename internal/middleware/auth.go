package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/auth"
)

// Authenticator verifies a raw token and returns the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// RequireAuth is middleware that validates the Authorization header and
// injects the caller's identity into the request context.
func RequireAuth(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractToken(r.Header.Get("Authorization"))
			if err != nil {
				apperr.Write(w, r, logger, err)
				return
			}

			id, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				apperr.Write(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
