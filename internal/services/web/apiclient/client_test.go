package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/louisbranch/storefront/internal/platform/metrics"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/sony/gobreaker"
)

func newTestClient(t *testing.T, handler http.Handler, cfg Config) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg.BaseURL = server.URL + "/api"
	cfg.Transport = server.Client().Transport
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewValidatesBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "not a url", "/api"} {
		if _, err := New(Config{BaseURL: raw}); err == nil {
			t.Fatalf("New(%q) expected error", raw)
		}
	}
}

func TestCallSendsTokenAndRequestID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(storage.Profile{ID: "u-1", Email: "ada@example.test", Role: "client"})
	}), Config{})

	ctx := requestctx.WithRequestID(WithToken(context.Background(), " tok "), "req-9")
	profile, err := client.Me(ctx)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if profile.ID != "u-1" {
		t.Fatalf("profile = %+v", profile)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotRequestID != "req-9" {
		t.Fatalf("X-Request-ID = %q", gotRequestID)
	}
	if gotPath != "/api/auth/me" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestCallOmitsAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`[]`))
	}), Config{})
	if _, err := client.Categories(context.Background()); err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
}

func TestCallDecodesAPIErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":400,"error":"Bad Request","message":"Order totals do not match calculated values","code":"ORDER_TOTALS_MISMATCH"}`))
	}), Config{})

	_, err := client.MyOrders(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apperrors.KindOf(err); got != apperrors.KindInvalidInput {
		t.Fatalf("kind = %q", got)
	}
	if got := apperrors.CodeOf(err); got != "ORDER_TOTALS_MISMATCH" {
		t.Fatalf("code = %q", got)
	}
	if got := apperrors.LocalizationKey(err); got != "error.api.order_totals_mismatch" {
		t.Fatalf("key = %q", got)
	}
}

func TestBreakerIgnoresRejectionsAndOpensOnFailures(t *testing.T) {
	t.Parallel()

	var status atomic.Int32
	status.Store(http.StatusNotFound)
	var calls atomic.Int32
	reg := metrics.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","message":"missing"}`))
	}), Config{Metrics: reg, FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := client.ProductBySlug(context.Background(), "missing"); apperrors.KindOf(err) != apperrors.KindNotFound {
			t.Fatalf("call %d error = %v", i, err)
		}
	}
	if client.BreakerState() != gobreaker.StateClosed {
		t.Fatalf("breaker tripped on rejections: %s", client.BreakerState())
	}

	status.Store(http.StatusBadGateway)
	for i := 0; i < 2; i++ {
		_, _ = client.ProductBySlug(context.Background(), "any")
	}
	if client.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %s, want open", client.BreakerState())
	}

	before := calls.Load()
	_, err := client.ProductBySlug(context.Background(), "any")
	if apperrors.KindOf(err) != apperrors.KindUnavailable {
		t.Fatalf("open breaker error = %v", err)
	}
	if calls.Load() != before {
		t.Fatal("open breaker still reached the api")
	}

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `name="storefront-api"`) {
		t.Fatalf("breaker gauge missing: %s", rec.Body.String())
	}
}

func TestProductQueryValues(t *testing.T) {
	t.Parallel()

	min := 10.0
	values := ProductQuery{Search: "tee", Category: "shirts", SortBy: "price_asc", Page: 2, Limit: 12, MinPrice: &min, OnSale: true}.Values()
	want := map[string]string{"search": "tee", "category": "shirts", "sortBy": "price_asc", "page": "2", "limit": "12", "minPrice": "10", "onSale": "true"}
	for key, value := range want {
		if got := values.Get(key); got != value {
			t.Fatalf("%s = %q, want %q", key, got, value)
		}
	}
	if values.Has("maxPrice") || values.Has("inStock") {
		t.Fatalf("unexpected values %v", values)
	}
}
