package session

import "context"

type contextKey struct{}

// ContextWith attaches a session to the context.
func ContextWith(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext retrieves the session from the context, or nil.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(contextKey{}).(*Session)
	return sess
}

// TokenFromContext returns the bearer token of the session bound to ctx,
// empty when there is none. Fetches triggered by debounce timers and poll
// loops reach the upstream client through this.
func TokenFromContext(ctx context.Context) string {
	if sess := FromContext(ctx); sess != nil {
		return sess.Token()
	}
	return ""
}
