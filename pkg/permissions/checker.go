// Package permissions checks role permissions against required permissions
// with support for wildcards.
//
// Permission Format:
//   - "*" - Full access (all permissions)
//   - "resource.*" - All actions on a resource (e.g., "inventory.*")
//   - "resource.action" - Specific action (e.g., "inventory.read")
//   - "resource.subresource.action" - Nested permission (e.g., "inventory.costs.read")
package permissions

import (
	"strings"
)

// Well-known permissions
const (
	PermInventoryRead = "inventory.read"
	PermCostsRead     = "inventory.costs.read"
	PermAlertsManage  = "inventory.alerts.manage"
)

// rolePermissions maps the built-in roles to their permission sets.
// Roles are assigned by the user service; this table is the single place
// that decides which roles may see purchase costs and supplier identities.
var rolePermissions = map[string][]string{
	"boss":    {"*"},
	"manager": {"inventory.*"},
	"staff":   {PermInventoryRead},
	"viewer":  {PermInventoryRead},
	"system":  {"*"},
}

// ForRole returns the permission set for a role. Unknown roles get none.
func ForRole(role string) []string {
	return rolePermissions[role]
}

// RoleCan checks whether a role carries the required permission.
func RoleCan(role, required string) bool {
	return HasPermission(ForRole(role), required)
}

// HasPermission checks if the permissions include the required permission.
// Supports wildcard matching:
//   - "*" matches everything
//   - "inventory.*" matches "inventory.read", "inventory.costs.read", etc.
//   - Exact match for specific permissions
func HasPermission(perms []string, required string) bool {
	if required == "" {
		return true // No permission required
	}

	for _, p := range perms {
		if p == "*" {
			return true // Full admin access
		}
		if p == required {
			return true // Exact match
		}
		// Check wildcard patterns like "inventory.*"
		if strings.HasSuffix(p, ".*") {
			prefix := strings.TrimSuffix(p, ".*")
			if strings.HasPrefix(required, prefix+".") {
				return true
			}
		}
	}
	return false
}

// HasAnyPermission checks if any of the required permissions is held.
func HasAnyPermission(perms []string, required []string) bool {
	for _, req := range required {
		if HasPermission(perms, req) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if all of the required permissions are held.
func HasAllPermissions(perms []string, required []string) bool {
	for _, req := range required {
		if !HasPermission(perms, req) {
			return false
		}
	}
	return true
}
