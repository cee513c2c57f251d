package apiclient

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/louisbranch/storefront/internal/pricing"
	apiapp "github.com/louisbranch/storefront/internal/services/api/app"
	"github.com/louisbranch/storefront/internal/services/api/auth"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"golang.org/x/crypto/bcrypt"
)

func newAPIBackedClient(t *testing.T) *Client {
	t.Helper()
	runtime, err := apiapp.Build(context.Background(), apiapp.RuntimeConfig{
		DBPath:     filepath.Join(t.TempDir(), "storefront.db"),
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("build api: %v", err)
	}
	t.Cleanup(func() { _ = runtime.Close() })
	return newTestClient(t, runtime.Handler, Config{})
}

func TestClientAgainstAPI(t *testing.T) {
	client := newAPIBackedClient(t)
	ctx := context.Background()

	session, err := client.Register(ctx, auth.RegisterInput{
		Email:     "ada@example.test",
		Password:  "correct horse battery",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.AccessToken == "" || session.User.Email != "ada@example.test" {
		t.Fatalf("session = %+v", session)
	}

	_, err = client.Register(ctx, auth.RegisterInput{Email: "ada@example.test", Password: "correct horse battery"})
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("duplicate register error = %v", err)
	}

	signedIn := WithToken(ctx, session.AccessToken)
	me, err := client.Me(signedIn)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.ID != session.User.ID {
		t.Fatalf("me = %+v", me)
	}
	if _, err := client.Me(ctx); apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Fatalf("anonymous Me() error = %v", err)
	}
	if _, err := client.Stats(signedIn); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("client Stats() error = %v", err)
	}

	items := []pricing.CartItem{{ProductID: "p-1", Name: "Tee", Price: 20, Qty: 2}}
	totals := pricing.Compute(items, pricing.DefaultPolicy)
	order, err := client.CreateOrder(signedIn, orders.CreateInput{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.test",
		Phone:        "555",
		AddressLine1: "1 Analytical St",
		PostalCode:   "1000",
		City:         "London",
		Cart:         items,
		Subtotal:     totals.Subtotal,
		ShippingFee:  totals.Shipping,
		Total:        totals.Total,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.UserID != me.ID || order.Status != storage.OrderPending {
		t.Fatalf("order = %+v", order)
	}

	mine, err := client.MyOrders(signedIn)
	if err != nil {
		t.Fatalf("MyOrders() error = %v", err)
	}
	if len(mine) != 1 || mine[0].ID != order.ID {
		t.Fatalf("my orders = %+v", mine)
	}

	settings, err := client.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if settings.Currency == "" {
		t.Fatalf("settings = %+v", settings)
	}
}
