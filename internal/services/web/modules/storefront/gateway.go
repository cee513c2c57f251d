package storefront

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/reviews"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

// CatalogGateway is the API surface the storefront reads.
type CatalogGateway interface {
	Products(ctx context.Context, q apiclient.ProductQuery) (catalog.ProductPage, error)
	FeaturedProducts(ctx context.Context, limit int) ([]storage.Product, error)
	RecentProducts(ctx context.Context, limit int) ([]storage.Product, error)
	ProductBySlug(ctx context.Context, slug string) (storage.Product, error)
	ProductReviews(ctx context.Context, productID string) ([]storage.Review, error)
	CreateReview(ctx context.Context, productID string, in reviews.CreateInput) (storage.Review, error)
	Categories(ctx context.Context) ([]storage.Category, error)
	Settings(ctx context.Context) (storage.StoreSettings, error)
	Order(ctx context.Context, orderID string) (storage.Order, error)
}

var _ CatalogGateway = (*apiclient.Client)(nil)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "storefront gateway is not configured")
}

func (unavailableGateway) Products(context.Context, apiclient.ProductQuery) (catalog.ProductPage, error) {
	return catalog.ProductPage{}, errUnavailable()
}

func (unavailableGateway) FeaturedProducts(context.Context, int) ([]storage.Product, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) RecentProducts(context.Context, int) ([]storage.Product, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ProductBySlug(context.Context, string) (storage.Product, error) {
	return storage.Product{}, errUnavailable()
}

func (unavailableGateway) ProductReviews(context.Context, string) ([]storage.Review, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) CreateReview(context.Context, string, reviews.CreateInput) (storage.Review, error) {
	return storage.Review{}, errUnavailable()
}

func (unavailableGateway) Categories(context.Context) ([]storage.Category, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) Settings(context.Context) (storage.StoreSettings, error) {
	return storage.StoreSettings{}, errUnavailable()
}

func (unavailableGateway) Order(context.Context, string) (storage.Order, error) {
	return storage.Order{}, errUnavailable()
}
