package identity

import (
	"fmt"
	"strings"
)

var allRoles = []Role{RoleCitizen, RoleRescuer, RoleShelter, RoleVet, RoleAdmin}

// ParseRole maps a raw role string onto the closed Role set.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allRoles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanActOnReports reports whether a role may view and transition rescue reports.
func CanActOnReports(role Role) bool {
	switch role {
	case RoleRescuer, RoleShelter, RoleVet, RoleAdmin:
		return true
	}
	return false
}

// CanBeAssigned reports whether a report may be routed to an actor with this role.
func CanBeAssigned(role Role) bool {
	return CanActOnReports(role)
}
