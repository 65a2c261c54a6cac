// Package client is the Go SDK for the shopping-mall API. It holds
// the client-side session state (auth flags, CSRF token, cookies) and
// the shopping cart, mirroring what the web storefront keeps in the
// browser. A Client is meant to be used from a single goroutine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// requestTimeout guards against indefinite hangs; the API specifies
// no server-side timeout.
const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	httpc   *http.Client

	csrfToken     string
	authenticated bool
	admin         bool
	email         string
}

// New creates a client for the API at baseURL. Session cookies are
// kept in an in-memory jar.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
	}, nil
}

func (c *Client) Authenticated() bool { return c.authenticated }
func (c *Client) Admin() bool         { return c.admin }
func (c *Client) Email() string       { return c.email }
func (c *Client) CSRFToken() string   { return c.csrfToken }

// send performs a single request with the CSRF header attached. No
// retry logic lives here; that is Do's job.
func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.csrfToken != "" {
		req.Header.Set("X-CSRF-Token", c.csrfToken)
	}
	return c.httpc.Do(req)
}

// Do performs an authenticated request. On a 401 it attempts exactly
// one silent session refresh and, if that succeeds, retries the
// original request exactly once. A failed refresh hands the original
// 401 response back unmodified. The single-attempt guard keeps a 401
// from the refresh endpoint itself from looping.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	if !c.refresh(ctx) {
		return resp, nil
	}
	resp.Body.Close()
	return c.send(ctx, method, path, body, contentType)
}

// refresh exchanges the expiring credential for a renewed one and
// adopts the rotated CSRF token. Reports whether it succeeded.
func (c *Client) refresh(ctx context.Context) bool {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/refresh", nil, "")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var out struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false
	}
	if out.CSRFToken != "" {
		c.csrfToken = out.CSRFToken
	}
	return true
}

// getJSON fetches a public endpoint and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doJSON performs an authenticated request with a JSON body and
// decodes the response into out when it is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body []byte
	var contentType string
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return err
		}
		contentType = "application/json"
	}

	resp, err := c.Do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func joinQuery(path, key, value string) string {
	return fmt.Sprintf("%s?%s=%s", path, key, url.QueryEscape(value))
}
