package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"feedback-backend/internal/auth"
)

type ctxKey int

const identityKey ctxKey = 0

// RequireAuth parses the Authorization header, verifies the bearer token and
// stores the resulting identity in the request context. Missing header, wrong
// scheme and invalid token all fail with 401 uniformly.
func RequireAuth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "Authorization header missing")
				return
			}

			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "Invalid authorization scheme")
				return
			}

			identity, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity is exported so tests can inject a caller without a token.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity returns the verified caller, or nil on unauthenticated routes.
func GetIdentity(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": detail})
}
