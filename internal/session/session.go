// Package session holds the authenticated console session: upstream bearer
// token, identity, permission set and pending notifications. Sessions are
// created on login, destroyed on logout and refreshed on token renewal;
// nothing here is a process-global singleton.
package session

// Notification is a one-time user-facing message drained by the UI.
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Notification kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
)

// Session is the per-user console session.
type Session struct {
	ID string

	token             string
	userID            string
	role              string
	permissions       []string
	permissionsLoaded bool
	notifications     []Notification

	isNew     bool
	dirty     bool
	destroyed bool
}

// Token returns the upstream bearer token, empty when unauthenticated.
func (s *Session) Token() string { return s.token }

// UserID returns the authenticated user id, empty when unauthenticated.
func (s *Session) UserID() string { return s.userID }

// Role returns the authenticated user's role.
func (s *Session) Role() string { return s.role }

// Permissions returns the raw permission-code list.
func (s *Session) Permissions() []string { return s.permissions }

// PermissionsLoaded reports whether the permission list has settled. A
// session can be authenticated while its permissions are still in flight.
func (s *Session) PermissionsLoaded() bool { return s.permissionsLoaded }

// Authenticated reports whether the session carries an identity.
func (s *Session) Authenticated() bool { return s != nil && s.token != "" }

// Authenticate records a fresh identity after upstream login.
func (s *Session) Authenticate(token, userID, role string) {
	s.token = token
	s.userID = userID
	s.role = role
	s.permissions = nil
	s.permissionsLoaded = false
	s.dirty = true
}

// SetPermissions stores the settled permission list.
func (s *Session) SetPermissions(codes []string) {
	s.permissions = append([]string(nil), codes...)
	s.permissionsLoaded = true
	s.dirty = true
}

// Destroy clears the identity and marks the session for deletion on commit.
// The request that triggered it already sees the session as unauthenticated.
func (s *Session) Destroy() {
	s.token = ""
	s.userID = ""
	s.role = ""
	s.permissions = nil
	s.permissionsLoaded = false
	s.destroyed = true
	s.dirty = true
}

// Notify queues a one-time notification.
func (s *Session) Notify(kind, message string) {
	s.notifications = append(s.notifications, Notification{Kind: kind, Message: message})
	s.dirty = true
}

// DrainNotifications returns and clears all pending notifications.
func (s *Session) DrainNotifications() []Notification {
	out := s.notifications
	s.notifications = nil
	if len(out) > 0 {
		s.dirty = true
	}
	return out
}
