package auth

// Role is a coarse-grained access level granted to a principal.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a string to a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Principal is an authenticated identity plus its role set.
type Principal struct {
	Username string
	Roles    []Role
}

// HasAnyRole reports whether the principal holds at least one of the
// required roles. An empty requirement always passes.
func (p Principal) HasAnyRole(required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, have := range p.Roles {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}
