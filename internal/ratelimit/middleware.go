package ratelimit

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/llm-router/internal/auth"
	"github.com/af-corp/llm-router/internal/httputil"
	"github.com/af-corp/llm-router/internal/telemetry"
)

const (
	headerRateLimitRequests          = "X-RateLimit-Limit-Requests"
	headerRateLimitRemainingRequests = "X-RateLimit-Remaining-Requests"
	headerRateLimitReset             = "X-RateLimit-Reset-Requests"
	headerRetryAfter                 = "Retry-After"
)

// Middleware returns chi middleware that enforces a requests-per-minute limit.
// Callers are bucketed by API key when authenticated and by client address
// otherwise.
func Middleware(limiter *Limiter, rpm int, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")
			bucket := bucketFor(r)

			result, _ := limiter.Check(r.Context(), "rpm:"+bucket, int64(rpm), time.Minute)

			// Always set rate limit headers
			w.Header().Set(headerRateLimitRequests, strconv.Itoa(rpm))
			w.Header().Set(headerRateLimitRemainingRequests, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, result.ResetAt.Format(time.RFC3339))

			if !result.Allowed {
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"bucket", bucket,
					"limit", rpm,
				)
				if metrics != nil {
					metrics.RecordRateLimitHit()
				}
				w.Header().Set(headerRetryAfter, strconv.Itoa(int(result.RetryAfter.Seconds())))
				httputil.WriteRateLimitError(w, reqID,
					fmt.Sprintf("Rate limit exceeded: %d requests per minute. Retry after %s", rpm, result.ResetAt.Format(time.RFC3339)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bucketFor(r *http.Request) string {
	if info, ok := auth.AuthFromContext(r.Context()); ok {
		return "key:" + info.KeyID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
