package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-api-employees/internal/domain"
	jwtinfra "github.com/go-api-employees/internal/infrastructure/jwt"
)

type contextKey string

const claimsKey contextKey = "claims"

const unauthenticated = "Unauthenticated."

type tokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// SessionValidator confirms that the session a token was issued for is still live.
type SessionValidator interface {
	Validate(ctx context.Context, sessionID string) (*domain.Session, error)
}

// Auth returns middleware that validates the Bearer JWT, checks its session
// (when sessions is non-nil) and injects the claims into the context.
func Auth(provider tokenVerifier, sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, unauthenticated)
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, unauthenticated)
				return
			}
			if sessions != nil {
				if _, err := sessions.Validate(r.Context(), claims.SessionID); err != nil {
					if errors.Is(err, domain.ErrUnauthorized) {
						writeJSONError(w, http.StatusUnauthorized, unauthenticated)
						return
					}
					slog.Error("session validation failed", "session_id", claims.SessionID, "err", err)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *jwtinfra.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
