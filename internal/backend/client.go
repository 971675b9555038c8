// Package backend is the REST client for the remote storefront API: product
// catalog, search, the authenticated cart record, and the auth endpoints.
// The service never owns this data; every successful response replaces the
// corresponding local collection wholesale.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/oakmart/storefront-web/internal/catalog"
)

// Entry is one line of the sparse cart record as the backend sends it.
type Entry struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

const defaultTimeout = 8 * time.Second

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client issues storefront API calls against a configured base URL.
type Client struct {
	base   *url.URL
	client HTTPClient
}

// NewClient constructs a Client for the given API base URL, e.g.
// "http://localhost:8082/api/v1". A nil httpClient falls back to a default
// client with a bounded timeout; the core imposes no timeout of its own
// beyond the transport's.
func NewClient(baseURL string, httpClient HTTPClient) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("backend: base URL is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("backend: parse base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: parsed, client: httpClient}, nil
}

// Products fetches the full unfiltered catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/products", nil, "")
	if err != nil {
		return nil, err
	}
	var products []catalog.Product
	if err := c.exec(req, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts fetches the catalog filtered by the given search text. An
// empty result array is a valid response meaning "no match", not an error.
func (c *Client) SearchProducts(ctx context.Context, value string) ([]catalog.Product, error) {
	endpoint := "/products/search?value=" + url.QueryEscape(value)
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, err
	}
	var products []catalog.Product
	if err := c.exec(req, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Cart fetches the caller's sparse cart record.
func (c *Client) Cart(ctx context.Context, token string) ([]Entry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/cart", nil, token)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := c.exec(req, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertCart adds or updates one cart line and returns the full updated
// record. The backend is authoritative for interpreting qty 0 as removal;
// the client passes the quantity through uninterpreted.
func (c *Client) UpsertCart(ctx context.Context, token, productID string, qty int) ([]Entry, error) {
	body := Entry{ProductID: productID, Qty: qty}
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/cart", body, token)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := c.exec(req, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Credentials carries a username/password pair for the auth endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the backend's response to a successful login.
type LoginResult struct {
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/auth/register", creds, "")
	if err != nil {
		return err
	}
	return c.exec(req, nil)
}

// Login authenticates and returns the session token and profile fields.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/auth/login", creds, "")
	if err != nil {
		return LoginResult{}, err
	}
	var result LoginResult
	if err := c.exec(req, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (c *Client) exec(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", ulid.Make().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, endpoint string, payload any, token string) (*http.Request, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("backend: encode payload: %w", err)
	}
	req, err := c.newRequest(ctx, method, endpoint, &buf, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) resolve(endpoint string) string {
	trimmed := strings.TrimPrefix(endpoint, "/")
	ref := &url.URL{Path: trimmed}
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		ref = &url.URL{Path: trimmed[:i], RawQuery: trimmed[i+1:]}
	}
	resolved := *c.base
	resolved.Path = strings.TrimRight(resolved.Path, "/") + "/" + ref.Path
	resolved.RawQuery = ref.RawQuery
	return resolved.String()
}

// rejectionPayload is the backend's structured error body.
type rejectionPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload rejectionPayload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			return &Error{Status: resp.StatusCode, Message: payload.Message}
		}
	}
	return &Error{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
