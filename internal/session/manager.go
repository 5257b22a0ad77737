package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/hkdf"
)

// Manager orchestrates cookie based sessions backed by Redis. Cookie values
// are "<id>.<signature>" so a forged id is rejected before touching Redis.
type Manager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
	signingKey []byte
}

type sessionPayload struct {
	Token             string         `json:"token"`
	UserID            string         `json:"user_id"`
	Role              string         `json:"role"`
	Permissions       []string       `json:"permissions"`
	PermissionsLoaded bool           `json:"permissions_loaded"`
	Notifications     []Notification `json:"notifications,omitempty"`
}

// NewManager constructs a Manager. The cookie signing key is derived from
// the configured secret via HKDF so the raw secret never signs directly.
func NewManager(client *redis.Client, cookieName, secret string, ttl time.Duration, secure bool) (*Manager, error) {
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte("meridian-console/session-cookie"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return &Manager{
		client:     client,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		signingKey: key,
	}, nil
}

// Load loads the session for the request, or returns a fresh one.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return &Session{isNew: true}, nil
		}
		return nil, err
	}
	id, ok := m.verify(cookie.Value)
	if !ok {
		return &Session{isNew: true}, nil
	}

	raw, err := m.client.Get(ctx, m.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Session{isNew: true}, nil
		}
		return nil, err
	}
	var stored sessionPayload
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	return &Session{
		ID:                id,
		token:             stored.Token,
		userID:            stored.UserID,
		role:              stored.Role,
		permissions:       stored.Permissions,
		permissionsLoaded: stored.PermissionsLoaded,
		notifications:     stored.Notifications,
	}, nil
}

// Commit persists the session and writes cookie headers as needed.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		if sess.ID != "" {
			if err := m.client.Del(ctx, m.key(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteStrictMode,
		})
		return nil
	}

	if sess.isNew && sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	if sess.dirty || sess.isNew {
		data, err := json.Marshal(sessionPayload{
			Token:             sess.token,
			UserID:            sess.userID,
			Role:              sess.role,
			Permissions:       sess.permissions,
			PermissionsLoaded: sess.permissionsLoaded,
			Notifications:     sess.notifications,
		})
		if err != nil {
			return err
		}
		if err := m.client.Set(ctx, m.key(sess.ID), data, m.ttl).Err(); err != nil {
			return err
		}
		sess.dirty = false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    m.sign(sess.ID),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(m.ttl),
	})
	return nil
}

func (m *Manager) key(id string) string {
	return "console:session:" + id
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.signingKey)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *Manager) verify(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	want, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, m.signingKey)
	mac.Write([]byte(id))
	if !hmac.Equal(mac.Sum(nil), want) {
		return "", false
	}
	return id, true
}
