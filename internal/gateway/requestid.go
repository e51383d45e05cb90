package gateway

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID makes sure every request and response carries an X-Request-ID,
// keeping the caller's value when one is sent.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = "req_" + uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}
