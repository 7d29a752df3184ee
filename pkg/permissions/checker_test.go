package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		perms    []string
		required string
		want     bool
	}{
		{"full wildcard", []string{"*"}, "inventory.costs.read", true},
		{"resource wildcard", []string{"inventory.*"}, "inventory.costs.read", true},
		{"resource wildcard does not match other resources", []string{"inventory.*"}, "staff.read", false},
		{"exact match", []string{"inventory.read"}, "inventory.read", true},
		{"exact match is not a prefix match", []string{"inventory.read"}, "inventory.costs.read", false},
		{"empty requirement always passes", nil, "", true},
		{"no permissions", nil, "inventory.read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.perms, tt.required))
		})
	}
}

func TestRoleCan(t *testing.T) {
	// Cost visibility is the permission that separates the roles.
	assert.True(t, RoleCan("boss", PermCostsRead))
	assert.True(t, RoleCan("manager", PermCostsRead))
	assert.True(t, RoleCan("system", PermCostsRead))
	assert.False(t, RoleCan("staff", PermCostsRead))
	assert.False(t, RoleCan("viewer", PermCostsRead))
	assert.False(t, RoleCan("", PermCostsRead))
	assert.False(t, RoleCan("intern", PermCostsRead))

	// Everyone known can read inventory.
	assert.True(t, RoleCan("staff", PermInventoryRead))
	assert.True(t, RoleCan("viewer", PermInventoryRead))

	// Alert management stays with management roles.
	assert.True(t, RoleCan("manager", PermAlertsManage))
	assert.False(t, RoleCan("staff", PermAlertsManage))
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	perms := []string{"inventory.read", "inventory.alerts.manage"}

	assert.True(t, HasAnyPermission(perms, []string{"inventory.costs.read", "inventory.read"}))
	assert.False(t, HasAnyPermission(perms, []string{"inventory.costs.read"}))

	assert.True(t, HasAllPermissions(perms, []string{"inventory.read", "inventory.alerts.manage"}))
	assert.False(t, HasAllPermissions(perms, []string{"inventory.read", "inventory.costs.read"}))
}
