package middleware

import (
	"net/http"

	"github.com/codexlib/libraryd/internal/auth"
	"github.com/codexlib/libraryd/internal/httpx"
	"github.com/codexlib/libraryd/internal/policy"
)

// Authorize gates the request on the matched rule's role requirement.
// Runs after RequestAuthenticator, so a missing principal on a
// protected route means the chain was assembled wrong; it is still
// rejected as unauthenticated rather than let through.
func Authorize() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule := RuleFromContext(r.Context())

			var principal *auth.Principal
			if p, ok := PrincipalFromContext(r.Context()); ok {
				principal = &p
			}

			switch policy.Authorize(rule, principal) {
			case policy.Allow:
				next.ServeHTTP(w, r)
			case policy.DenyUnauthenticated:
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			case policy.DenyForbidden:
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
			}
		})
	}
}
