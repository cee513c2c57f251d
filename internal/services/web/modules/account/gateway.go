package account

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/api/profiles"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

// ProfileGateway reads and edits the caller's own profile.
type ProfileGateway interface {
	Me(ctx context.Context) (storage.Profile, error)
	UpdateMe(ctx context.Context, in profiles.SelfUpdate) (storage.Profile, error)
}

var _ ProfileGateway = (*apiclient.Client)(nil)

type unavailableGateway struct{}

func (unavailableGateway) Me(context.Context) (storage.Profile, error) {
	return storage.Profile{}, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "profile gateway is not configured")
}

func (unavailableGateway) UpdateMe(context.Context, profiles.SelfUpdate) (storage.Profile, error) {
	return storage.Profile{}, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "profile gateway is not configured")
}
