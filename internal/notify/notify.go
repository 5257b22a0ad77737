// Package notify bridges mutation outcomes to the session's one-time
// notification queue.
package notify

import "github.com/meridian-pos/meridian-console/internal/session"

// SessionNotifier queues notifications on the caller's session; they are
// drained by the notifications endpoint on the next request.
type SessionNotifier struct {
	sess *session.Session
}

// ForSession binds a notifier to the given session. A nil session yields a
// notifier that drops everything.
func ForSession(sess *session.Session) *SessionNotifier {
	return &SessionNotifier{sess: sess}
}

// Notify queues one notification.
func (n *SessionNotifier) Notify(kind, message string) {
	if n == nil || n.sess == nil {
		return
	}
	n.sess.Notify(kind, message)
}
