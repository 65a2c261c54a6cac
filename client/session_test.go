package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestCheckAuthNetworkErrorYieldsAnonymous(t *testing.T) {
	c, err := New("http://127.0.0.1:1") // nothing listens here
	require.NoError(t, err)

	status := c.CheckAuth(context.Background())

	assert.False(t, status.Authenticated)
	assert.False(t, c.Authenticated())
	assert.False(t, c.Admin())
}

func TestCheckAuthNonOKYieldsAnonymous(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	status := c.CheckAuth(context.Background())

	assert.False(t, status.Authenticated)
	assert.False(t, c.Authenticated())
}

func TestCheckAuthPopulatesSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"admin":         true,
			"email":         "admin@example.com",
		})
	}))

	status := c.CheckAuth(context.Background())

	assert.True(t, status.Authenticated)
	assert.True(t, c.Authenticated())
	assert.True(t, c.Admin())
	assert.Equal(t, "admin@example.com", c.Email())
}

func TestDoRefreshesOnceOnPersistent401(t *testing.T) {
	var refreshCalls, requestCalls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			refreshCalls++
			json.NewEncoder(w).Encode(map[string]string{"csrf_token": "fresh"})
		default:
			requestCalls++
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))

	resp, err := c.Do(context.Background(), http.MethodGet, "/api/admin/orders", nil, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	// one refresh, one retry, then the 401 is surfaced as-is
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, 2, requestCalls)
	assert.Equal(t, "fresh", c.CSRFToken())
}

func TestDoFailedRefreshReturnsOriginal401(t *testing.T) {
	var refreshCalls, requestCalls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			refreshCalls++
			w.WriteHeader(http.StatusUnauthorized)
		default:
			requestCalls++
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))

	resp, err := c.Do(context.Background(), http.MethodGet, "/api/admin/orders", nil, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, 1, requestCalls)
}

func TestDoRetriesSuccessfullyAfterRefresh(t *testing.T) {
	var attempts int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			json.NewEncoder(w).Encode(map[string]string{"csrf_token": "fresh"})
		default:
			attempts++
			if attempts == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "fresh", r.Header.Get("X-CSRF-Token"))
			w.WriteHeader(http.StatusOK)
		}
	}))

	resp, err := c.Do(context.Background(), http.MethodGet, "/api/admin/orders", nil, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, attempts)
}

func loginTestHandler(loginStatus int, admin bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/csrf-token":
			json.NewEncoder(w).Encode(map[string]string{"csrf_token": "tok"})
		case "/api/auth/login":
			if loginStatus != http.StatusOK {
				w.WriteHeader(loginStatus)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"message":    "login successful",
				"admin":      admin,
				"email":      "user@example.com",
				"csrf_token": "rotated",
			})
		case "/api/auth/check":
			json.NewEncoder(w).Encode(map[string]any{
				"authenticated": true,
				"admin":         admin,
				"email":         "user@example.com",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestLoginErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrInvalidCredentials},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusConflict, ErrEmailTaken},
	}
	for _, tc := range cases {
		c := newTestClient(t, loginTestHandler(tc.status, false))
		err := c.Login(context.Background(), "user@example.com", "password123")
		assert.ErrorIs(t, err, tc.want)
		assert.False(t, c.Authenticated())
	}
}

func TestLoginAdoptsRotatedCSRFAndChecksAuth(t *testing.T) {
	c := newTestClient(t, loginTestHandler(http.StatusOK, false))

	err := c.Login(context.Background(), "user@example.com", "password123")

	require.NoError(t, err)
	assert.True(t, c.Authenticated())
	assert.Equal(t, "rotated", c.CSRFToken())
}

func TestLoginRedirectTargets(t *testing.T) {
	// admin login always lands on the admin panel
	admin := newTestClient(t, loginTestHandler(http.StatusOK, true))
	require.NoError(t, admin.Login(context.Background(), "admin@example.com", "password123"))
	assert.Equal(t, "/admin", admin.LoginRedirect("/checkout"))

	// a regular user returns to the page they came from
	user := newTestClient(t, loginTestHandler(http.StatusOK, false))
	require.NoError(t, user.Login(context.Background(), "user@example.com", "password123"))
	assert.Equal(t, "/checkout", user.LoginRedirect("/checkout"))
	assert.Equal(t, "/", user.LoginRedirect(""))
}

func TestGateAdmin(t *testing.T) {
	anonymous := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"authenticated": false})
	}))
	anonymous.CheckAuth(context.Background())

	redirect, ok := anonymous.GateAdmin("/admin")
	assert.False(t, ok)
	assert.Equal(t, "/login?from=/admin", redirect)

	admin := newTestClient(t, loginTestHandler(http.StatusOK, true))
	require.NoError(t, admin.Login(context.Background(), "admin@example.com", "password123"))

	redirect, ok = admin.GateAdmin("/admin")
	assert.True(t, ok)
	assert.Empty(t, redirect)
}

func TestLogoutClearsStateEvenOnServerError(t *testing.T) {
	c := newTestClient(t, loginTestHandler(http.StatusOK, false))
	require.NoError(t, c.Login(context.Background(), "user@example.com", "password123"))
	require.True(t, c.Authenticated())

	// swap in a server that always fails
	failing := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	failing.authenticated = true
	failing.admin = true
	failing.csrfToken = "tok"

	_ = failing.Logout(context.Background())

	assert.False(t, failing.Authenticated())
	assert.False(t, failing.Admin())
	assert.Empty(t, failing.CSRFToken())
}

func TestCheckoutSendsCartAndReturnsApprovalURL(t *testing.T) {
	var got checkoutRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/checkout/paypal", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"approvalUrl": "https://paypal.example/approve"})
	}))

	cart := NewCart()
	cart.Add(Product{ID: 1, Name: "mug", Price: 10}, 2)

	approvalURL, invoice, err := c.Checkout(context.Background(), cart, "buyer@example.com")

	require.NoError(t, err)
	assert.Equal(t, "https://paypal.example/approve", approvalURL)
	assert.NotEmpty(t, invoice)
	assert.Equal(t, invoice, got.Invoice)
	require.Len(t, got.CartItems, 1)
	assert.Equal(t, 2, got.CartItems[0].Quantity)
	assert.Equal(t, "guest", got.Username)
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty cart")
	}))

	_, _, err := c.Checkout(context.Background(), NewCart(), "buyer@example.com")

	assert.ErrorIs(t, err, ErrEmptyCart)
}
