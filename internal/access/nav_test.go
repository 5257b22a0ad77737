package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func navIDs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterNavigationAllSentinel(t *testing.T) {
	full := Navigation()
	id := NewIdentity("MANAGER", []string{CodeAll}, true)
	assert.Equal(t, navIDs(full), navIDs(FilterNavigation(full, id)))
}

func TestFilterNavigationAdmin(t *testing.T) {
	full := Navigation()
	id := NewIdentity(RoleAdmin, nil, false)
	assert.Equal(t, navIDs(full), navIDs(FilterNavigation(full, id)))
}

func TestFilterNavigationEmptyPermissionsFallsBack(t *testing.T) {
	full := Navigation()
	id := NewIdentity("CASHIER", nil, true)
	got := navIDs(FilterNavigation(full, id))
	assert.Equal(t, []string{"dashboard", "pos", "sales", "inventory", "customers"}, got)
}

func TestFilterNavigationUnloadedFallsBack(t *testing.T) {
	full := Navigation()
	id := NewIdentity("CASHIER", []string{PermAuditView}, false)
	got := navIDs(FilterNavigation(full, id))
	assert.Equal(t, []string{"dashboard", "pos", "sales", "inventory", "customers"}, got)
}

func TestFilterNavigationIntersection(t *testing.T) {
	full := Navigation()
	id := NewIdentity("MANAGER", []string{PermSalesManage, PermAuditView}, true)
	got := navIDs(FilterNavigation(full, id))
	// dashboard has no required permissions and is always visible.
	assert.Equal(t, []string{"dashboard", "sales", "audit"}, got)
}

func TestFilterNavigationIsOrderedSubset(t *testing.T) {
	full := Navigation()
	identities := []Identity{
		NewIdentity("", nil, false),
		NewIdentity("CASHIER", []string{PermPOSOperate, PermCustomersView}, true),
		NewIdentity("MANAGER", []string{CodeAll}, true),
		NewIdentity(RoleAdmin, nil, true),
	}
	position := make(map[string]int, len(full))
	for i, e := range full {
		position[e.ID] = i
	}
	for _, id := range identities {
		filtered := FilterNavigation(full, id)
		require.LessOrEqual(t, len(filtered), len(full))
		last := -1
		for _, e := range filtered {
			pos, ok := position[e.ID]
			require.True(t, ok, "filtered entry %q not in full list", e.ID)
			require.Greater(t, pos, last, "ordering not preserved")
			last = pos
		}
	}
}
