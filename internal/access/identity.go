// Package access implements permission checks, declarative gating and
// navigation filtering for the console. Permission codes are opaque strings
// compared by exact match; there is no hierarchy or partial matching.
package access

// RoleAdmin bypasses every capability check regardless of the permission set.
const RoleAdmin = "ADMIN"

// CodeAll is the sentinel permission code granting everything.
const CodeAll = "all"

// Permission codes known to the console.
const (
	PermDashboardView  = "dashboard:view"
	PermPOSOperate     = "pos:operate"
	PermSalesView      = "sales:view"
	PermSalesManage    = "sales:manage"
	PermInventoryView  = "inventory:view"
	PermInventoryEdit  = "inventory:manage"
	PermStockAdjust    = "inventory:adjust"
	PermCustomersView  = "customers:view"
	PermCustomersEdit  = "customers:manage"
	PermBranchesView   = "branches:view"
	PermBranchesEdit   = "branches:manage"
	PermUsersView      = "users:view"
	PermUsersEdit      = "users:manage"
	PermJournalView    = "journal:view"
	PermAuditView      = "audit:view"
	PermSettingsEdit   = "settings:manage"
	PermBackupManage   = "backup:manage"
	PermNotificesView  = "notifications:view"
)

// Identity is the immutable capability view of a session. It is built once
// per request from session data and only read afterwards.
type Identity struct {
	role   string
	codes  map[string]struct{}
	loaded bool
}

// NewIdentity builds an Identity from a role and a flat permission list.
// loaded reports whether the permission list has settled; callers decide how
// to treat in-flight permission data.
func NewIdentity(role string, permissions []string, loaded bool) Identity {
	codes := make(map[string]struct{}, len(permissions))
	for _, code := range permissions {
		if code != "" {
			codes[code] = struct{}{}
		}
	}
	return Identity{role: role, codes: codes, loaded: loaded}
}

// Anonymous returns an identity with no role and no permissions.
func Anonymous() Identity {
	return Identity{codes: map[string]struct{}{}}
}

// Role returns the identity's role.
func (id Identity) Role() string { return id.role }

// IsAdmin reports the ADMIN bypass.
func (id Identity) IsAdmin() bool { return id.role == RoleAdmin }

// Loaded reports whether the permission set has settled.
func (id Identity) Loaded() bool { return id.loaded }

// Empty reports whether the permission set holds no codes.
func (id Identity) Empty() bool { return len(id.codes) == 0 }

// Has reports whether a single capability is held.
func (id Identity) Has(code string) bool {
	if id.IsAdmin() {
		return true
	}
	if _, ok := id.codes[CodeAll]; ok {
		return true
	}
	_, ok := id.codes[code]
	return ok
}

// HasAny reports whether at least one of the codes is held.
func (id Identity) HasAny(codes ...string) bool {
	for _, code := range codes {
		if id.Has(code) {
			return true
		}
	}
	return false
}

// HasAll reports whether every code is held.
func (id Identity) HasAll(codes ...string) bool {
	for _, code := range codes {
		if !id.Has(code) {
			return false
		}
	}
	return true
}

// holdsLiterally reports raw set membership, ignoring the admin and "all"
// bypasses. Used by Not requirements, where an explicit denial must not be
// defeated by the "all" grant.
func (id Identity) holdsLiterally(code string) bool {
	_, ok := id.codes[code]
	return ok
}
