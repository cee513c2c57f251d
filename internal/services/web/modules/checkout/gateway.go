package checkout

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

// CheckoutGateway prices carts and places orders.
type CheckoutGateway interface {
	ProductBySlug(ctx context.Context, slug string) (storage.Product, error)
	Settings(ctx context.Context) (storage.StoreSettings, error)
	Me(ctx context.Context) (storage.Profile, error)
	CreateOrder(ctx context.Context, in orders.CreateInput) (storage.Order, error)
}

var _ CheckoutGateway = (*apiclient.Client)(nil)

type unavailableGateway struct{}

func (unavailableGateway) ProductBySlug(context.Context, string) (storage.Product, error) {
	return storage.Product{}, errUnavailable()
}

func (unavailableGateway) Settings(context.Context) (storage.StoreSettings, error) {
	return storage.StoreSettings{}, errUnavailable()
}

func (unavailableGateway) Me(context.Context) (storage.Profile, error) {
	return storage.Profile{}, errUnavailable()
}

func (unavailableGateway) CreateOrder(context.Context, orders.CreateInput) (storage.Order, error) {
	return storage.Order{}, errUnavailable()
}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "checkout gateway is not configured")
}
