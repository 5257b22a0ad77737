package access

// Decision is the outcome of evaluating a Requirement against an Identity.
type Decision int

const (
	// Granted allows the gated content or action.
	Granted Decision = iota
	// Denied blocks it with an explicit denial the caller should surface.
	Denied
	// DeniedHidden blocks it without surfacing anything (hide mode).
	DeniedHidden
	// Pending means permission data is still in flight; callers render a
	// loading fallback instead of mis-gated content.
	Pending
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool { return d == Granted }

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case DeniedHidden:
		return "denied-hidden"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Requirement declares the permission combination gating a destination or
// action. Zero-value requirements grant unconditionally.
type Requirement struct {
	// AnyOf grants when at least one code is held.
	AnyOf []string
	// AllOf grants only when every code is held.
	AllOf []string
	// Not denies when any listed code is literally present in the
	// permission set. Explicit denial markers are exempt from the "all"
	// grant; only the ADMIN role bypasses them.
	Not []string
	// Hide suppresses the denial instead of surfacing it, for actions that
	// should not occupy space when unauthorized.
	Hide bool
}

func (r Requirement) empty() bool {
	return len(r.AnyOf) == 0 && len(r.AllOf) == 0 && len(r.Not) == 0
}

func (r Requirement) deny() Decision {
	if r.Hide {
		return DeniedHidden
	}
	return Denied
}

// Decide evaluates the requirement. Short-circuit order: ungated pass,
// ADMIN bypass, in-flight permissions, Not denial, AllOf, AnyOf.
func (r Requirement) Decide(id Identity) Decision {
	if r.empty() {
		return Granted
	}
	if id.IsAdmin() {
		return Granted
	}
	if !id.Loaded() {
		return Pending
	}
	for _, code := range r.Not {
		if id.holdsLiterally(code) {
			return r.deny()
		}
	}
	if len(r.AllOf) > 0 && !id.HasAll(r.AllOf...) {
		return r.deny()
	}
	if len(r.AnyOf) > 0 && !id.HasAny(r.AnyOf...) {
		return r.deny()
	}
	return Granted
}
