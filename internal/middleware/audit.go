package middleware

import (
	"net/http"
	"time"

	"github.com/codexlib/libraryd/internal/audit"
)

// Audit emits one structured audit entry per request after the handler
// completes. The actor is the verified principal, or "anonymous" on
// exempt paths.
func Audit(logger audit.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriterInterceptor{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			actor := "anonymous"
			var roles []string
			if p, ok := PrincipalFromContext(r.Context()); ok {
				actor = p.Username
				for _, role := range p.Roles {
					roles = append(roles, string(role))
				}
			}

			entry := audit.LogEntry{
				Timestamp: start,
				ActorID:   actor,
				Roles:     roles,
				Action:    r.Method + " " + r.URL.Path,
				Resource:  r.URL.Path,
				Status:    rw.statusCode,
				Metadata: map[string]interface{}{
					"remote_addr": r.RemoteAddr,
					"duration_ms": time.Since(start).Milliseconds(),
				},
			}
			logger.Log(entry)
		})
	}
}
