package domain

import "strings"

// Role is a coarse authorization tag carried inside tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Roles is the role set of a user. Every user holds at least RoleUser.
type Roles []Role

// Has reports whether the set contains the given role.
func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Join renders the set in its storage form ("USER,ADMIN").
func (rs Roles) Join() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// ParseRoles parses the storage form back into a role set.
func ParseRoles(s string) Roles {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	rs := make(Roles, 0, len(parts))
	for _, p := range parts {
		rs = append(rs, Role(strings.TrimSpace(p)))
	}
	return rs
}
