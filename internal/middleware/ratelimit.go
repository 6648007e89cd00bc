package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/codexlib/libraryd/internal/httpx"
	"github.com/codexlib/libraryd/internal/limiter"
	"github.com/codexlib/libraryd/internal/reliability"
)

// RateLimit enforces the per-rule token bucket. Authenticated requests
// are keyed by username, anonymous ones by remote address. Limiter
// backend failures fail open: a broken Redis must not take the catalog
// down with it.
func RateLimit(l *limiter.TokenBucketLimiter, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule := RuleFromContext(r.Context())

			key := "ratelimit:ip:" + r.RemoteAddr
			if p, ok := PrincipalFromContext(r.Context()); ok {
				key = "ratelimit:user:" + p.Username
			}

			allowed, remaining, err := l.Allow(r.Context(), key, rule.RateLimit, rule.Burst)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(remaining)))

			if err != nil {
				if err == limiter.ErrRateLimitExceeded {
					httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "")
					return
				}
				if reliability.ShouldAllow(reliability.FailOpen, err) {
					logger.Warn("rate limiter unavailable, failing open", slog.Any("error", err))
					next.ServeHTTP(w, r)
					return
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}

			if !allowed {
				httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
