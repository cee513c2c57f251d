package orders

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

// OrderGateway reads the caller's orders. The API enforces ownership.
type OrderGateway interface {
	MyOrders(ctx context.Context) ([]storage.Order, error)
	Order(ctx context.Context, orderID string) (storage.Order, error)
}

var _ OrderGateway = (*apiclient.Client)(nil)

type unavailableGateway struct{}

func (unavailableGateway) MyOrders(context.Context) ([]storage.Order, error) {
	return nil, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "order gateway is not configured")
}

func (unavailableGateway) Order(context.Context, string) (storage.Order, error) {
	return storage.Order{}, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "order gateway is not configured")
}
