// ABOUTME: Account roles for authorization decisions
// ABOUTME: A user holds exactly one role, fixed when the account is created

package store

import "fmt"

// Role represents the authorization level of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRoles lists all valid roles
var ValidRoles = []Role{
	RoleUser,
	RoleAdmin,
}

// ParseRole converts a stored role string to a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range ValidRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}
