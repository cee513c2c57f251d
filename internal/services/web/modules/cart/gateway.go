package cart

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

// CartGateway prices cart lines against the live catalog.
type CartGateway interface {
	ProductBySlug(ctx context.Context, slug string) (storage.Product, error)
	Settings(ctx context.Context) (storage.StoreSettings, error)
}

var _ CartGateway = (*apiclient.Client)(nil)

type unavailableGateway struct{}

func (unavailableGateway) ProductBySlug(context.Context, string) (storage.Product, error) {
	return storage.Product{}, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "cart gateway is not configured")
}

func (unavailableGateway) Settings(context.Context) (storage.StoreSettings, error) {
	return storage.StoreSettings{}, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "cart gateway is not configured")
}
