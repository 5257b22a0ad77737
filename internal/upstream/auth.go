package upstream

import (
	"context"
	"net/http"
)

// Credentials is the identity returned by a successful login.
type Credentials struct {
	Token  string `json:"access_token"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login exchanges email/password for a bearer token and identity.
func Login(ctx context.Context, c *Client, email, password string) (Credentials, error) {
	var creds Credentials
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return creds, err
	}
	err = c.do(req, "", &creds)
	return creds, err
}

// Permissions returns the caller's flat permission-code list.
func Permissions(ctx context.Context, c *Client, token string) ([]string, error) {
	var body struct {
		Permissions []string `json:"permissions"`
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/me/permissions", nil, nil)
	if err != nil {
		return nil, err
	}
	if err := c.do(req, token, &body); err != nil {
		return nil, err
	}
	return body.Permissions, nil
}
