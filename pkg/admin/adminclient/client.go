// Package adminclient is an HTTP client for the offer admin API. It logs
// in with a username and password and carries the session cookie on every
// subsequent request.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/offerdesk/offerd/pkg/offer"
)

// Sentinel errors for the auth failure modes.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("administrator role required")
)

// APIError is a non-auth error response from the server.
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// IsValidationError reports whether err is the server's validation
// failure response.
func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest
}

// Client talks to an offer admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a client for the admin API at baseURL. Call Login before
// any offer operation.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
			// The server redirects unauthenticated requests to the login
			// page. Surface that as an error instead of following it.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.post(ctx, "/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.post(ctx, "/logout", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// CreateOffer creates an offer. The server assigns the id and does not
// return it; list to observe the result.
func (c *Client) CreateOffer(ctx context.Context, name string, amount, maximumRides float64) error {
	resp, err := c.post(ctx, "/offer", map[string]any{
		"name":         name,
		"amount":       amount,
		"maximumRides": maximumRides,
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// UpdateOffer replaces the offer with the given id, inserting it when the
// id is unknown.
func (c *Client) UpdateOffer(ctx context.Context, o *offer.Offer) error {
	resp, err := c.post(ctx, "/offerUpdate", o)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// ListOffers returns offers in insertion order. A limit of zero or less
// returns everything.
func (c *Client) ListOffers(ctx context.Context, limit int) ([]*offer.Offer, error) {
	path := "/offers"
	if limit > 0 {
		path += "/" + strconv.Itoa(limit)
	}
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var offers []*offer.Offer
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		return nil, fmt.Errorf("failed to decode offer list: %w", err)
	}
	return offers, nil
}

// DeleteOffer removes the offer with the given id. Deleting an unknown id
// succeeds.
func (c *Client) DeleteOffer(ctx context.Context, id string) error {
	resp, err := c.delete(ctx, "/offer/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// Health checks the server health endpoint. It needs no session.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.get(ctx, "/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func (c *Client) delete(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

func (c *Client) parseError(resp *http.Response) error {
	if resp.StatusCode == http.StatusSeeOther {
		return ErrUnauthenticated
	}
	if resp.StatusCode == http.StatusForbidden {
		return ErrForbidden
	}
	body, _ := io.ReadAll(resp.Body)
	var apiErr APIError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return &apiErr
	}
	return fmt.Errorf("request failed: status %d", resp.StatusCode)
}
