package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/louisbranch/storefront/internal/services/api/auth"
	"github.com/louisbranch/storefront/internal/services/api/dashboard"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/profiles"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, in auth.RegisterInput) (auth.Session, error) {
	var session auth.Session
	err := c.call(ctx, request{method: http.MethodPost, path: "/auth/register", body: in}, &session)
	return session, err
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, in auth.LoginInput) (auth.Session, error) {
	var session auth.Session
	err := c.call(ctx, request{method: http.MethodPost, path: "/auth/login", body: in}, &session)
	return session, err
}

// Me loads the profile behind the context token.
func (c *Client) Me(ctx context.Context) (storage.Profile, error) {
	var profile storage.Profile
	err := c.call(ctx, request{method: http.MethodGet, path: "/auth/me"}, &profile)
	return profile, err
}

// UpdateMe edits the caller's own profile.
func (c *Client) UpdateMe(ctx context.Context, in profiles.SelfUpdate) (storage.Profile, error) {
	var profile storage.Profile
	err := c.call(ctx, request{method: http.MethodPut, path: "/profiles/me", body: in}, &profile)
	return profile, err
}

// Profiles lists every profile (staff).
func (c *Client) Profiles(ctx context.Context) ([]storage.Profile, error) {
	var list []storage.Profile
	err := c.call(ctx, request{method: http.MethodGet, path: "/profiles"}, &list)
	return list, err
}

// Profile loads one profile.
func (c *Client) Profile(ctx context.Context, userID string) (storage.Profile, error) {
	var profile storage.Profile
	err := c.call(ctx, request{method: http.MethodGet, path: "/profiles/" + url.PathEscape(userID)}, &profile)
	return profile, err
}

// UpdateProfile edits a profile including its role (staff).
func (c *Client) UpdateProfile(ctx context.Context, userID string, in profiles.AdminUpdate) (storage.Profile, error) {
	var profile storage.Profile
	err := c.call(ctx, request{method: http.MethodPut, path: "/profiles/" + url.PathEscape(userID), body: in}, &profile)
	return profile, err
}

// DeleteProfile removes an account (staff).
func (c *Client) DeleteProfile(ctx context.Context, userID string) error {
	return c.call(ctx, request{method: http.MethodDelete, path: "/profiles/" + url.PathEscape(userID)}, nil)
}

// CreateOrder places an order, as a guest when the context carries no
// token.
func (c *Client) CreateOrder(ctx context.Context, in orders.CreateInput) (storage.Order, error) {
	var order storage.Order
	err := c.call(ctx, request{method: http.MethodPost, path: "/orders", body: in}, &order)
	return order, err
}

// MyOrders lists the caller's orders.
func (c *Client) MyOrders(ctx context.Context) ([]storage.Order, error) {
	var list []storage.Order
	err := c.call(ctx, request{method: http.MethodGet, path: "/orders/me"}, &list)
	return list, err
}

// Order loads one order visible to the caller.
func (c *Client) Order(ctx context.Context, orderID string) (storage.Order, error) {
	var order storage.Order
	err := c.call(ctx, request{method: http.MethodGet, path: "/orders/" + url.PathEscape(orderID)}, &order)
	return order, err
}

// OrderQuery selects an admin order listing page.
type OrderQuery struct {
	Filter  string
	OrderBy string
	Page    int
	Limit   int
}

// ListOrders lists orders (staff).
func (c *Client) ListOrders(ctx context.Context, q OrderQuery) (orders.ListResult, error) {
	values := url.Values{}
	if q.Filter != "" {
		values.Set("filter", q.Filter)
	}
	if q.OrderBy != "" {
		values.Set("order_by", q.OrderBy)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	var result orders.ListResult
	err := c.call(ctx, request{method: http.MethodGet, path: "/orders", query: values}, &result)
	return result, err
}

// UpdateOrder patches an order (staff).
func (c *Client) UpdateOrder(ctx context.Context, orderID string, in orders.UpdateInput) (storage.Order, error) {
	var order storage.Order
	err := c.call(ctx, request{method: http.MethodPut, path: "/orders/" + url.PathEscape(orderID), body: in}, &order)
	return order, err
}

// DeleteOrder removes an order (staff).
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	return c.call(ctx, request{method: http.MethodDelete, path: "/orders/" + url.PathEscape(orderID)}, nil)
}

// Settings loads the store settings.
func (c *Client) Settings(ctx context.Context) (storage.StoreSettings, error) {
	var settings storage.StoreSettings
	err := c.call(ctx, request{method: http.MethodGet, path: "/settings"}, &settings)
	return settings, err
}

// UpdateSettings replaces the store settings (staff).
func (c *Client) UpdateSettings(ctx context.Context, in storage.StoreSettings) (storage.StoreSettings, error) {
	var settings storage.StoreSettings
	err := c.call(ctx, request{method: http.MethodPut, path: "/settings", body: in}, &settings)
	return settings, err
}

// Stats loads the admin dashboard overview (staff).
func (c *Client) Stats(ctx context.Context) (dashboard.Overview, error) {
	var overview dashboard.Overview
	err := c.call(ctx, request{method: http.MethodGet, path: "/admin/stats"}, &overview)
	return overview, err
}
