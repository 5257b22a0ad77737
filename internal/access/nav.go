package access

// Entry is one navigation destination. The required set is an OR: holding
// any listed code makes the destination visible.
type Entry struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Required []string `json:"-"`
}

// Navigation returns the full ordered destination list. Static
// configuration, never mutated at runtime.
func Navigation() []Entry {
	return []Entry{
		{ID: "dashboard", Label: "Dashboard"},
		{ID: "pos", Label: "Point of Sale", Required: []string{PermPOSOperate}},
		{ID: "sales", Label: "Sales", Required: []string{PermSalesView, PermSalesManage}},
		{ID: "inventory", Label: "Inventory", Required: []string{PermInventoryView, PermInventoryEdit}},
		{ID: "customers", Label: "Customers", Required: []string{PermCustomersView, PermCustomersEdit}},
		{ID: "branches", Label: "Branches", Required: []string{PermBranchesView, PermBranchesEdit}},
		{ID: "users", Label: "Users & Roles", Required: []string{PermUsersView, PermUsersEdit}},
		{ID: "journal", Label: "Journal", Required: []string{PermJournalView}},
		{ID: "audit", Label: "Audit Log", Required: []string{PermAuditView}},
		{ID: "notifications", Label: "Notifications", Required: []string{PermNotificesView}},
		{ID: "settings", Label: "Settings", Required: []string{PermSettingsEdit}},
		{ID: "backup", Label: "Backup", Required: []string{PermBackupManage}},
	}
}

// fallbackDestinations is the conservative subset shown when permission data
// is empty or has not settled. Showing these rather than an empty menu keeps
// a user with stale permission data out of a dead-end UI; every page still
// enforces its own guard, navigation is not an authorization boundary.
var fallbackDestinations = map[string]struct{}{
	"dashboard": {},
	"pos":       {},
	"sales":     {},
	"inventory": {},
	"customers": {},
}

// FilterNavigation reduces the full navigation list to what the identity may
// see, preserving the original order.
func FilterNavigation(full []Entry, id Identity) []Entry {
	if id.IsAdmin() || id.holdsLiterally(CodeAll) {
		return full
	}
	if !id.Loaded() || id.Empty() {
		out := make([]Entry, 0, len(fallbackDestinations))
		for _, entry := range full {
			if _, ok := fallbackDestinations[entry.ID]; ok {
				out = append(out, entry)
			}
		}
		return out
	}
	out := make([]Entry, 0, len(full))
	for _, entry := range full {
		if len(entry.Required) == 0 || id.HasAny(entry.Required...) {
			out = append(out, entry)
		}
	}
	return out
}
