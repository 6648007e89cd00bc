package policy

import "github.com/codexlib/libraryd/internal/auth"

// CatalogRules is the ordered rule table for the catalog service.
// Exempt paths come first, then the book rules; the engine falls back
// to DefaultRule for everything else.
func CatalogRules() []Rule {
	return []Rule{
		{
			ID:        "login",
			Method:    "*",
			Path:      "/v1/auth",
			AllowAny:  true,
			RateLimit: 2,
			Burst:     5,
		},
		{
			ID:        "swagger-ui",
			Method:    "*",
			Path:      "/swagger-ui",
			AllowAny:  true,
			RateLimit: 10,
			Burst:     20,
		},
		{
			ID:        "api-docs",
			Method:    "*",
			Path:      "/v3/api-docs",
			AllowAny:  true,
			RateLimit: 10,
			Burst:     20,
		},
		{
			ID:        "health",
			Method:    "*",
			Path:      "/healthz",
			AllowAny:  true,
			RateLimit: 100,
			Burst:     100,
		},
		{
			ID:        "ready",
			Method:    "*",
			Path:      "/readyz",
			AllowAny:  true,
			RateLimit: 100,
			Burst:     100,
		},
		{
			ID:        "books-delete",
			Method:    "DELETE",
			Path:      "/v1/books",
			Roles:     []auth.Role{auth.RoleAdmin},
			RateLimit: 5,
			Burst:     10,
		},
		{
			ID:        "books-read",
			Method:    "GET",
			Path:      "/v1/books",
			Roles:     []auth.Role{auth.RoleUser, auth.RoleAdmin},
			RateLimit: 20,
			Burst:     40,
		},
		{
			ID:        "books-create",
			Method:    "POST",
			Path:      "/v1/books",
			Roles:     []auth.Role{auth.RoleUser, auth.RoleAdmin},
			RateLimit: 10,
			Burst:     20,
		},
		{
			ID:        "books-update",
			Method:    "PUT",
			Path:      "/v1/books",
			Roles:     []auth.Role{auth.RoleUser, auth.RoleAdmin},
			RateLimit: 10,
			Burst:     20,
		},
	}
}
