package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"veritas/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	OwnerID string
}

const bearerPrefix = "Bearer "

// OwnerIdentity resolves the capturing actor from an optional bearer token.
// A valid token binds records to its owner id; no token yields the
// "anonymous" owner, because evidence capture must work without accounts.
// An invalid token is rejected rather than downgraded to anonymous.
func OwnerIdentity(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}
			ctx := requestcontext.WithOwnerID(r.Context(), claims.OwnerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a valid bearer token. The default
// routes all allow anonymous capture; mount this on any route group that
// must not.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	identity := OwnerIdentity(validator, logger)
	return func(next http.Handler) http.Handler {
		return identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(requestcontext.ContextKeyOwnerID).(string); !ok {
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
