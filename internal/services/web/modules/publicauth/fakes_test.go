package publicauth

import (
	"context"
	"time"

	"github.com/louisbranch/storefront/internal/services/api/auth"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

type fakeGateway struct {
	registered  []auth.RegisterInput
	registerErr error
	loginErr    error
}

var fakeExpiry = time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

func (f *fakeGateway) Login(_ context.Context, in auth.LoginInput) (auth.Session, error) {
	if f.loginErr != nil {
		return auth.Session{}, f.loginErr
	}
	if in.Email != "ada@example.test" || in.Password != "correct horse" {
		return auth.Session{}, apperrors.FromAPI(401, "UNAUTHENTICATED", "Invalid credentials")
	}
	return auth.Session{AccessToken: "token-ada", ExpiresAt: fakeExpiry, User: storage.Profile{ID: "u1", Email: in.Email}}, nil
}

func (f *fakeGateway) Register(_ context.Context, in auth.RegisterInput) (auth.Session, error) {
	f.registered = append(f.registered, in)
	if f.registerErr != nil {
		return auth.Session{}, f.registerErr
	}
	return auth.Session{AccessToken: "token-new", ExpiresAt: fakeExpiry, User: storage.Profile{ID: "u2", Email: in.Email}}, nil
}
