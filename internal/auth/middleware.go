package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/af-corp/llm-router/internal/httputil"
)

// Middleware returns a chi middleware that authenticates requests via Bearer
// token. A nil store means no keys are configured and every request passes.
func Middleware(store KeyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteAuthError(w, reqID, "Missing authorization header")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			meta, err := store.Lookup(r.Context(), HashKey(token))
			if err != nil {
				slog.Error("key lookup failed", "error", err, "key_prefix", KeyPrefix(token))
				httputil.WriteInternalError(w, reqID, "Internal error during authentication")
				return
			}
			if meta == nil {
				slog.Warn("auth failed: key not found", "request_id", reqID, "key_prefix", KeyPrefix(token))
				httputil.WriteAuthError(w, reqID, "Invalid API key")
				return
			}

			ctx := ContextWithAuth(r.Context(), &AuthInfo{KeyID: meta.ID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
