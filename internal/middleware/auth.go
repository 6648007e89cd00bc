package middleware

import (
	"net/http"
	"strings"

	"github.com/codexlib/libraryd/internal/auth"
	"github.com/codexlib/libraryd/internal/httpx"
)

// TokenVerifier verifies a bearer token and resolves its principal.
type TokenVerifier interface {
	Verify(tokenStr string) (auth.Principal, error)
}

// RequestAuthenticator extracts and verifies the bearer token on every
// request whose matched rule requires authentication. All verification
// failure kinds collapse to a single 401 response.
func RequestAuthenticator(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule := RuleFromContext(r.Context())

			// Exempt paths pass through with no principal attached.
			if rule.AllowAny {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			principal, err := verifier.Verify(tokenStr)
			if err != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
