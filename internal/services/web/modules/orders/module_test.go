package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/module"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

type fakeGateway struct {
	orders map[string]storage.Order
}

func (f fakeGateway) MyOrders(context.Context) ([]storage.Order, error) {
	var out []storage.Order
	for _, order := range f.orders {
		out = append(out, order)
	}
	return out, nil
}

func (f fakeGateway) Order(_ context.Context, orderID string) (storage.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return storage.Order{}, apperrors.FromAPI(http.StatusNotFound, "NOT_FOUND", "order not found")
	}
	return order, nil
}

func newFake() fakeGateway {
	return fakeGateway{orders: map[string]storage.Order{
		"o1": {
			ID: "o1", FirstName: "Ada", LastName: "Lovelace", AddressLine1: "1 Main St", PostalCode: "1000", City: "Tunis",
			Cart:   []pricing.CartItem{{ProductID: "p1", Name: "Linen Shirt", Price: 40, Qty: 1}},
			Status: storage.OrderPaid, Subtotal: 40, ShippingFee: 7, Total: 47,
			CreatedAt: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
		},
	}}
}

func mountOrders(t *testing.T, gateway OrderGateway) http.Handler {
	t.Helper()
	mount, err := New(gateway, module.Dependencies{}).Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return mount.Handler
}

func TestOrderHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		status  int
		markers []string
	}{
		{name: "list", path: "/orders", status: http.StatusOK, markers: []string{`href="/orders/o1"`, "Paid", "47.00"}},
		{name: "list slash", path: "/orders/", status: http.StatusOK, markers: []string{`href="/orders/o1"`}},
		{name: "detail", path: "/orders/o1", status: http.StatusOK, markers: []string{"Linen Shirt", "1 Main St", "Tunis", "Paid"}},
		{name: "missing", path: "/orders/o9", status: http.StatusNotFound},
		{name: "nested", path: "/orders/o1/extra", status: http.StatusNotFound},
	}
	h := mountOrders(t, newFake())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			for _, marker := range tc.markers {
				if !strings.Contains(rr.Body.String(), marker) {
					t.Fatalf("body missing %q: %q", marker, rr.Body.String())
				}
			}
		})
	}
}

func TestOrdersUnavailable(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountOrders(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}
