package access

import (
	"context"
	"net/http"

	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
)

// IdentityFromContext builds the capability view of the session bound to
// the request context.
func IdentityFromContext(ctx context.Context) Identity {
	sess := session.FromContext(ctx)
	if sess == nil || !sess.Authenticated() {
		return Anonymous()
	}
	return NewIdentity(sess.Role(), sess.Permissions(), sess.PermissionsLoaded())
}

// Require gates a route on the requirement. Granted passes through; a plain
// denial is a 403; a hidden denial answers 404 as if the action did not
// exist; pending permission data answers 425 so the client retries instead
// of rendering mis-gated content.
func Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch req.Decide(IdentityFromContext(r.Context())) {
			case Granted:
				next.ServeHTTP(w, r)
			case Pending:
				httpx.Problem(w, http.StatusTooEarly, "Permissions Loading", "permission data is still loading, retry shortly")
			case DeniedHidden:
				httpx.Problem(w, http.StatusNotFound, "Not Found", "")
			default:
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permission")
			}
		})
	}
}

// RequireSession rejects unauthenticated requests before any guard runs.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess == nil || !sess.Authenticated() {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
