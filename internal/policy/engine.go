package policy

import (
	"strings"

	"github.com/codexlib/libraryd/internal/auth"
)

// Rule binds an HTTP method and path prefix to an access requirement
// and a per-route rate limit.
type Rule struct {
	ID     string `json:"id"`
	Method string `json:"method,omitempty"` // "*" or specific verb
	Path   string `json:"path"`             // prefix match

	// AllowAny bypasses authentication entirely (exempt paths).
	AllowAny bool `json:"allow_any"`
	// Roles is the accepted role set when AllowAny is false. Empty means
	// any authenticated principal.
	Roles []auth.Role `json:"roles,omitempty"`

	RateLimit float64 `json:"rate_limit"` // requests per second
	Burst     int     `json:"burst"`
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// DefaultRule governs requests no explicit rule matches: any
// authenticated principal, regardless of role.
var DefaultRule = Rule{
	ID:        "default",
	Method:    "*",
	Path:      "/",
	RateLimit: 5,
	Burst:     10,
}

// Engine evaluates requests against an ordered rule list, first match
// wins. The list is fixed at startup; reads need no synchronization.
type Engine struct {
	rules []Rule
}

// NewEngine constructs an Engine over the given ordered rules.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Evaluate returns the first rule matching method+path, or DefaultRule.
func (e *Engine) Evaluate(method, path string) Rule {
	for i := range e.rules {
		if match(e.rules[i], method, path) {
			return e.rules[i]
		}
	}
	return DefaultRule
}

// Authorize decides whether a principal may proceed under a rule.
// A nil principal means the request carried no verified identity.
func Authorize(rule Rule, principal *auth.Principal) Decision {
	if rule.AllowAny {
		return Allow
	}
	if principal == nil {
		return DenyUnauthenticated
	}
	if !principal.HasAnyRole(rule.Roles...) {
		return DenyForbidden
	}
	return Allow
}

func match(r Rule, method, path string) bool {
	if r.Method != "" && r.Method != "*" && r.Method != method {
		return false
	}
	return strings.HasPrefix(path, r.Path)
}
