package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/storefront/internal/platform/cache"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

type countingSettings struct {
	calls    int
	settings storage.StoreSettings
}

func (c *countingSettings) Settings(context.Context) (storage.StoreSettings, error) {
	c.calls++
	return c.settings, nil
}

func TestResolveShopCachesSettingsUntilInvalidated(t *testing.T) {
	t.Parallel()

	source := &countingSettings{settings: storage.StoreSettings{SiteName: "Corner Shop", Currency: "EUR"}}
	p := principalResolver{
		settings: source,
		shop:     cache.NewNamespace(cache.NewMemory(time.Minute), shopCacheNamespace, time.Minute, nil),
	}
	request := func() *http.Request { return httptest.NewRequest(http.MethodGet, "/", nil) }

	if shop := p.resolveShop(request()); shop.Name != "Corner Shop" || shop.Currency != "EUR" {
		t.Fatalf("shop = %+v", shop)
	}
	source.settings.SiteName = "Corner Shop II"
	if shop := p.resolveShop(request()); shop.Name != "Corner Shop" {
		t.Fatalf("expected cached name, got %q", shop.Name)
	}
	if source.calls != 1 {
		t.Fatalf("settings calls = %d, want 1", source.calls)
	}

	p.invalidateShop(context.Background())
	if shop := p.resolveShop(request()); shop.Name != "Corner Shop II" {
		t.Fatalf("name after invalidation = %q", shop.Name)
	}
	if source.calls != 2 {
		t.Fatalf("settings calls = %d, want 2", source.calls)
	}
}

func TestResolveShopDefaultsWithoutSettings(t *testing.T) {
	t.Parallel()

	p := principalResolver{shop: cache.NewNamespace(cache.NewMemory(time.Minute), shopCacheNamespace, time.Minute, nil)}
	shop := p.resolveShop(httptest.NewRequest(http.MethodGet, "/", nil))
	if shop.Name != defaultShopName || shop.Currency != defaultCurrency {
		t.Fatalf("shop = %+v", shop)
	}
	p.invalidateShop(context.Background())
}
