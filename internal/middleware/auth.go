package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipevault/recipevault/internal/auth"
	"github.com/recipevault/recipevault/internal/model"
)

// IdentityCache caches verified identities keyed by token hash, so hot
// clients do not hit the identity provider on every request. Entries
// must never outlive the token they were verified from; *cache.Cache
// honors that by capping the TTL at the token expiry.
type IdentityCache interface {
	GetIdentity(ctx context.Context, tokenHash string) (*model.Identity, error)
	SetIdentity(ctx context.Context, tokenHash string, id *model.Identity) error
}

// AuthConfig holds configuration for the authentication middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier auth.TokenVerifier
	// Cache is optional; nil disables identity caching.
	Cache IdentityCache
}

// Authenticate returns a middleware that authenticates requests by
// bearer token. It extracts the token from the Authorization header,
// verifies it against the identity provider, and injects the verified
// identity into the request context. Verification failure is terminal
// for the request; nothing downstream runs.
func Authenticate(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing or malformed bearer token")
				return
			}

			tokenHash := hashToken(token)

			// Check cache first
			if cfg.Cache != nil {
				if cached, _ := cfg.Cache.GetIdentity(r.Context(), tokenHash); cached != nil {
					ctx := auth.ContextWithIdentity(r.Context(), cached)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			identity, err := cfg.Verifier.Verify(r.Context(), token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("error", err.Error()),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired token")
				return
			}

			if cfg.Cache != nil {
				_ = cfg.Cache.SetIdentity(r.Context(), tokenHash, identity)
			}

			cfg.Logger.Info("authentication successful",
				slog.String("subject_id", identity.SubjectID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns a middleware that restricts a route to the
// configured admin identity. Must run after Authenticate: a request
// that reaches it without an identity is treated as unauthenticated.
func RequireAdmin(logger *slog.Logger, adminEmail string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.IdentityFromContext(r.Context())
			if identity == nil {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
				return
			}

			if !identity.IsAdmin(adminEmail) {
				logger.Warn("admin access denied",
					slog.String("subject_id", identity.SubjectID),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Only the admin can access this route")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken returns the raw token from the Authorization
// header, or "" when the header is absent or not a Bearer credential.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// hashToken derives the cache key for a token. The raw token is a
// credential and must not appear in Redis.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// writeAuthError writes a JSON authorization error response.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
