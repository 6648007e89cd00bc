package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codexlib/libraryd/internal/auth"
)

func catalogEngine() *Engine {
	return NewEngine(CatalogRules())
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	engine := catalogEngine()

	// DELETE must hit the admin rule even though the read rule also
	// covers the /v1/books prefix.
	rule := engine.Evaluate(http.MethodDelete, "/v1/books/5")
	assert.Equal(t, "books-delete", rule.ID)

	rule = engine.Evaluate(http.MethodGet, "/v1/books")
	assert.Equal(t, "books-read", rule.ID)

	rule = engine.Evaluate(http.MethodPost, "/v1/books/borrow/3")
	assert.Equal(t, "books-create", rule.ID)
}

func TestEvaluateExemptPaths(t *testing.T) {
	engine := catalogEngine()

	for _, path := range []string{"/v1/auth", "/swagger-ui/index.html", "/v3/api-docs", "/healthz", "/readyz"} {
		rule := engine.Evaluate(http.MethodGet, path)
		assert.True(t, rule.AllowAny, "path %s should be exempt", path)
	}
}

func TestEvaluateFallsBackToDefault(t *testing.T) {
	engine := catalogEngine()

	rule := engine.Evaluate(http.MethodGet, "/v1/members")
	assert.Equal(t, DefaultRule.ID, rule.ID)
	assert.False(t, rule.AllowAny)
	assert.Empty(t, rule.Roles)
}

func TestAuthorizeRoleGate(t *testing.T) {
	engine := catalogEngine()
	deleteRule := engine.Evaluate(http.MethodDelete, "/v1/books/5")

	user := &auth.Principal{Username: "user", Roles: []auth.Role{auth.RoleUser}}
	admin := &auth.Principal{Username: "admin", Roles: []auth.Role{auth.RoleAdmin}}

	assert.Equal(t, DenyForbidden, Authorize(deleteRule, user))
	assert.Equal(t, Allow, Authorize(deleteRule, admin))

	readRule := engine.Evaluate(http.MethodGet, "/v1/books")
	assert.Equal(t, Allow, Authorize(readRule, user))
	assert.Equal(t, Allow, Authorize(readRule, admin))
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	engine := catalogEngine()

	readRule := engine.Evaluate(http.MethodGet, "/v1/books")
	assert.Equal(t, DenyUnauthenticated, Authorize(readRule, nil))

	// Exempt rules allow with no principal at all.
	loginRule := engine.Evaluate(http.MethodPost, "/v1/auth")
	assert.Equal(t, Allow, Authorize(loginRule, nil))

	// Default rule accepts any authenticated principal regardless of role.
	defaultRule := engine.Evaluate(http.MethodGet, "/v1/members")
	assert.Equal(t, DenyUnauthenticated, Authorize(defaultRule, nil))
	user := &auth.Principal{Username: "user", Roles: []auth.Role{auth.RoleUser}}
	assert.Equal(t, Allow, Authorize(defaultRule, user))
}

func TestMatchMethodWildcard(t *testing.T) {
	rule := Rule{ID: "any", Method: "*", Path: "/x"}
	assert.True(t, match(rule, http.MethodGet, "/x/y"))
	assert.True(t, match(rule, http.MethodDelete, "/x"))
	assert.False(t, match(rule, http.MethodGet, "/y"))

	scoped := Rule{ID: "get-only", Method: http.MethodGet, Path: "/x"}
	assert.True(t, match(scoped, http.MethodGet, "/x"))
	assert.False(t, match(scoped, http.MethodPost, "/x"))
}
