package middleware

import (
	"net/http"

	"github.com/codexlib/libraryd/internal/policy"
)

// PolicyEnforcer evaluates the rule table for every request and attaches
// the matched rule to the context. Downstream middleware (auth,
// authorization, rate limiting) read the rule rather than re-matching.
func PolicyEnforcer(engine *policy.Engine) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule := engine.Evaluate(r.Method, r.URL.Path)
			ctx := ContextWithRule(r.Context(), rule)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
