package publicauth

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/api/auth"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

// AuthGateway exchanges credentials for API sessions.
type AuthGateway interface {
	Login(ctx context.Context, in auth.LoginInput) (auth.Session, error)
	Register(ctx context.Context, in auth.RegisterInput) (auth.Session, error)
}

var _ AuthGateway = (*apiclient.Client)(nil)

type unavailableGateway struct{}

func (unavailableGateway) Login(context.Context, auth.LoginInput) (auth.Session, error) {
	return auth.Session{}, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "auth gateway is not configured")
}

func (unavailableGateway) Register(context.Context, auth.RegisterInput) (auth.Session, error) {
	return auth.Session{}, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "auth gateway is not configured")
}
