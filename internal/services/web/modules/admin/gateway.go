package admin

import (
	"context"
	"io"

	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/dashboard"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/profiles"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

// ProductGateway manages the catalog.
type ProductGateway interface {
	AdminProducts(ctx context.Context, q apiclient.ProductQuery) (catalog.ProductPage, error)
	DraftProducts(ctx context.Context, q apiclient.ProductQuery) (catalog.ProductPage, error)
	AdminProduct(ctx context.Context, productID string) (storage.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (storage.Product, error)
	UpdateProduct(ctx context.Context, productID string, in catalog.ProductInput) (storage.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ImportProducts(ctx context.Context, csv io.Reader) (catalog.ImportSummary, error)
	ImportTemplate(ctx context.Context) ([]byte, error)
	AllCategories(ctx context.Context) ([]storage.Category, error)
}

// OrderGateway manages every customer's orders.
type OrderGateway interface {
	ListOrders(ctx context.Context, q apiclient.OrderQuery) (orders.ListResult, error)
	Order(ctx context.Context, orderID string) (storage.Order, error)
	UpdateOrder(ctx context.Context, orderID string, in orders.UpdateInput) (storage.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

// UserGateway manages accounts.
type UserGateway interface {
	Profiles(ctx context.Context) ([]storage.Profile, error)
	Profile(ctx context.Context, userID string) (storage.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in profiles.AdminUpdate) (storage.Profile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

// SettingsGateway reads and replaces the store settings.
type SettingsGateway interface {
	Settings(ctx context.Context) (storage.StoreSettings, error)
	UpdateSettings(ctx context.Context, in storage.StoreSettings) (storage.StoreSettings, error)
}

// Gateway is everything the admin console calls.
type Gateway interface {
	ProductGateway
	OrderGateway
	UserGateway
	SettingsGateway
	Stats(ctx context.Context) (dashboard.Overview, error)
}

var _ Gateway = (*apiclient.Client)(nil)

const unavailableMessage = "admin gateway is not configured"

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.unavailable", unavailableMessage)
}

type unavailableGateway struct{}

func (unavailableGateway) AdminProducts(context.Context, apiclient.ProductQuery) (catalog.ProductPage, error) {
	return catalog.ProductPage{}, errUnavailable()
}

func (unavailableGateway) DraftProducts(context.Context, apiclient.ProductQuery) (catalog.ProductPage, error) {
	return catalog.ProductPage{}, errUnavailable()
}

func (unavailableGateway) AdminProduct(context.Context, string) (storage.Product, error) {
	return storage.Product{}, errUnavailable()
}

func (unavailableGateway) CreateProduct(context.Context, catalog.ProductInput) (storage.Product, error) {
	return storage.Product{}, errUnavailable()
}

func (unavailableGateway) UpdateProduct(context.Context, string, catalog.ProductInput) (storage.Product, error) {
	return storage.Product{}, errUnavailable()
}

func (unavailableGateway) DeleteProduct(context.Context, string) error { return errUnavailable() }

func (unavailableGateway) ImportProducts(context.Context, io.Reader) (catalog.ImportSummary, error) {
	return catalog.ImportSummary{}, errUnavailable()
}

func (unavailableGateway) ImportTemplate(context.Context) ([]byte, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) AllCategories(context.Context) ([]storage.Category, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListOrders(context.Context, apiclient.OrderQuery) (orders.ListResult, error) {
	return orders.ListResult{}, errUnavailable()
}

func (unavailableGateway) Order(context.Context, string) (storage.Order, error) {
	return storage.Order{}, errUnavailable()
}

func (unavailableGateway) UpdateOrder(context.Context, string, orders.UpdateInput) (storage.Order, error) {
	return storage.Order{}, errUnavailable()
}

func (unavailableGateway) DeleteOrder(context.Context, string) error { return errUnavailable() }

func (unavailableGateway) Profiles(context.Context) ([]storage.Profile, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) Profile(context.Context, string) (storage.Profile, error) {
	return storage.Profile{}, errUnavailable()
}

func (unavailableGateway) UpdateProfile(context.Context, string, profiles.AdminUpdate) (storage.Profile, error) {
	return storage.Profile{}, errUnavailable()
}

func (unavailableGateway) DeleteProfile(context.Context, string) error { return errUnavailable() }

func (unavailableGateway) Settings(context.Context) (storage.StoreSettings, error) {
	return storage.StoreSettings{}, errUnavailable()
}

func (unavailableGateway) UpdateSettings(context.Context, storage.StoreSettings) (storage.StoreSettings, error) {
	return storage.StoreSettings{}, errUnavailable()
}

func (unavailableGateway) Stats(context.Context) (dashboard.Overview, error) {
	return dashboard.Overview{}, errUnavailable()
}
