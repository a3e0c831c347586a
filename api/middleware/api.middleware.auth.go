package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware resolves bearer tokens through the auth gate.
type AuthMiddleware struct {
	gate *auth.Gate
}

func NewAuthMiddleware(gate *auth.Gate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// Authenticate validates the token and adds the principal to the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			handleError(w, errors.NewAuthError("Not authenticated", err))
			return
		}

		principal, err := m.gate.Authenticate(r.Context(), token)
		if err != nil {
			handleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireLevel authenticates the request and rejects principals below level.
func (m *AuthMiddleware) RequireLevel(level auth.Level) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := m.gate.Require(PrincipalFrom(r.Context()), level); err != nil {
				handleError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the principal stored by Authenticate, or nil.
func PrincipalFrom(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(principalKey).(*auth.Principal)
	return p
}

func handleError(w http.ResponseWriter, err error) {
	apiErr, ok := errors.As(err)
	if !ok {
		apiErr = errors.NewInternalError("Internal Server Error", err)
	}
	apiErr = apiErr.WithRequestID(nuts.NID("req", 12))
	if apiErr.Code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Code)
	json.NewEncoder(w).Encode(apiErr)
}
