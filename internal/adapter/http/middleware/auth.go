package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/auth"
	"github.com/iho/goremit/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// IdentityContextKey is the context key for the authenticated caller
	IdentityContextKey ContextKey = "identity"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware resolves the caller identity from a bearer token and rejects
// the request with UN_AUTHORIZED when it cannot.
type AuthMiddleware struct {
	verifier TokenVerifier
	metrics  *metrics.Metrics
}

// NewAuthMiddleware creates a new AuthMiddleware. m may be nil.
func NewAuthMiddleware(verifier TokenVerifier, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, metrics: m}
}

// Wrap wraps an http.Handler with authentication.
func (m *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.reject(w, "missing")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			m.reject(w, "malformed")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, domain.ErrExpiredToken) {
				reason = "expired"
			}
			m.reject(w, reason)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.Identity())))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, reason string) {
	if m.metrics != nil {
		m.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
	writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Code, domain.ErrUnauthorized.Message)
}

// WithIdentity returns a copy of ctx carrying the caller identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// IdentityFromContext extracts the authenticated caller from context
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(domain.Identity)
	return identity, ok
}
