package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// AuthStatus is the result of the session-introspection endpoint.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Admin         bool   `json:"admin"`
	UserID        int64  `json:"userId"`
	Email         string `json:"email"`
}

func (c *Client) clearSession() {
	c.authenticated = false
	c.admin = false
	c.email = ""
	c.csrfToken = ""
}

// CheckAuth queries the session-introspection endpoint and updates the
// local auth state. Any transport failure or non-OK response leaves
// the session anonymous; absence of a session is deliberately not
// distinguished from a transient network error. Safe to call
// repeatedly.
func (c *Client) CheckAuth(ctx context.Context) AuthStatus {
	resp, err := c.send(ctx, http.MethodGet, "/api/auth/check", nil, "")
	if err != nil {
		c.authenticated = false
		c.admin = false
		c.email = ""
		return AuthStatus{}
	}
	defer resp.Body.Close()

	var status AuthStatus
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&status) != nil || !status.Authenticated {
		c.authenticated = false
		c.admin = false
		c.email = ""
		return AuthStatus{}
	}

	c.authenticated = true
	c.admin = status.Admin
	c.email = status.Email
	return status
}

// ensureCSRF fetches a CSRF token when none is held yet.
func (c *Client) ensureCSRF(ctx context.Context) error {
	if c.csrfToken != "" {
		return nil
	}
	resp, err := c.send(ctx, http.MethodGet, "/api/auth/csrf-token", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var out struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	c.csrfToken = out.CSRFToken
	return nil
}

type credentialsResponse struct {
	Admin     bool   `json:"admin"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrf_token"`
}

// Login authenticates with the given credentials. Failures map to
// ErrInvalidCredentials (401), ErrRateLimited (429) or a generic
// APIError; on success the rotated CSRF token is adopted and the
// session state re-checked.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if err := c.ensureCSRF(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/login", payload, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var out credentialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	c.csrfToken = out.CSRFToken
	c.CheckAuth(ctx)
	return nil
}

// Register creates a new account. A duplicate email maps to
// ErrEmailTaken (409); rate limiting to ErrRateLimited (429).
func (c *Client) Register(ctx context.Context, email, password, confirmPassword string) error {
	if err := c.ensureCSRF(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	})
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/register", payload, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// Logout posts to the logout endpoint and clears the local session
// state regardless of the outcome, so a dead server can never leave
// the client looking signed in. The transport error, if any, is
// returned for logging.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/logout", nil, "")
	if resp != nil {
		resp.Body.Close()
	}
	c.clearSession()
	return err
}

// ChangePassword updates the account password. The server ends the
// session on success, so local state is cleared too.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	payload := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/change-password", payload, nil); err != nil {
		return err
	}
	c.clearSession()
	return nil
}

// LoginRedirect decides where to navigate after a successful login:
// admins land on the admin panel, everyone else returns to the page
// they came from.
func (c *Client) LoginRedirect(from string) string {
	if c.admin {
		return "/admin"
	}
	if from != "" {
		return from
	}
	return "/"
}

// GateAdmin guards an admin page. It reports ok for an authenticated
// admin; otherwise it returns the login route carrying the origin so
// the login flow can send the user back afterward.
func (c *Client) GateAdmin(from string) (redirect string, ok bool) {
	if c.authenticated && c.admin {
		return "", true
	}
	return "/login?from=" + from, false
}
