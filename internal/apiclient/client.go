// Package apiclient is the HTTP Backend a session uses to reach the store API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/pickup-store/internal/apperror"
	catalog "github.com/tair/pickup-store/internal/catalog/domain"
	identity "github.com/tair/pickup-store/internal/identity/domain"
	order "github.com/tair/pickup-store/internal/order/domain"
	"github.com/tair/pickup-store/internal/session"
)

// DefaultTimeout bounds every request.
const (
	DefaultTimeout = 10 * time.Second

	breakerFailures = 5
	breakerCooldown = 15 * time.Second
)

// Client talks to the storefront JSON API.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *breaker

	mu    sync.RWMutex
	token string
}

var _ session.Backend = (*Client)(nil)

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: newBreaker(breakerFailures, breakerCooldown),
	}
}

// Token returns the identity token issued at the last login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if err := c.breaker.allow(); err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.record(ctx.Err() == nil)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.breaker.record(resp.StatusCode >= http.StatusInternalServerError)

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: unexpected response (status %d): %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return apperror.FromCode(env.Code, msg)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s %s: failed to decode data: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) Login(ctx context.Context, userID string) (*session.Account, error) {
	var resp struct {
		User    identity.User `json:"user"`
		IsAdmin bool          `json:"is_admin"`
		Token   string        `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"customer_id": userID}, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return &session.Account{User: resp.User, IsAdmin: resp.IsAdmin}, nil
}

func (c *Client) Register(ctx context.Context, name string) (*identity.User, error) {
	var user identity.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{"name": name}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) AddUser(ctx context.Context, u identity.User) (*identity.User, error) {
	body := map[string]string{"id": u.ID, "name": u.Name, "role": u.Role}
	var user identity.User
	if err := c.do(ctx, http.MethodPost, "/api/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]identity.User, error) {
	var users []identity.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, draft catalog.ProductDraft) (*catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", draft, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodPatch, "/api/products/"+url.PathEscape(id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*catalog.Category, error) {
	var category catalog.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", map[string]string{"name": name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PlaceOrder(ctx context.Context, draft order.Draft) (*order.Order, error) {
	var o order.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", draft, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) ListOrders(ctx context.Context, requesterID string) ([]order.Order, error) {
	var orders []order.Order
	path := "/api/orders?customer_id=" + url.QueryEscape(requesterID)
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	var o order.Order
	path := "/api/orders/" + url.PathEscape(orderID) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, map[string]string{"status": string(status)}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID, customerID string) (*order.Order, error) {
	var o order.Order
	path := "/api/orders/" + url.PathEscape(orderID) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"customer_id": customerID}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
