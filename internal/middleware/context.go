package middleware

import (
	"context"

	"github.com/codexlib/libraryd/internal/auth"
	"github.com/codexlib/libraryd/internal/policy"
)

type principalContextKey struct{}
type ruleContextKey struct{}

// ContextWithPrincipal stores the verified principal in context.
func ContextWithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the verified principal, if any.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(auth.Principal)
	return p, ok
}

// ContextWithRule stores the matched authorization rule in context.
func ContextWithRule(ctx context.Context, r policy.Rule) context.Context {
	return context.WithValue(ctx, ruleContextKey{}, r)
}

// RuleFromContext extracts the matched rule, falling back to the
// default rule when the enforcer did not run.
func RuleFromContext(ctx context.Context) policy.Rule {
	if r, ok := ctx.Value(ruleContextKey{}).(policy.Rule); ok {
		return r
	}
	return policy.DefaultRule
}
