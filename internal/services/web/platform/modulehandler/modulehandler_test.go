package modulehandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/services/web/module"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/platform/sessioncookie"
)

func TestNewBaseExtractsResolvers(t *testing.T) {
	t.Parallel()

	base := NewBase(module.Dependencies{
		ResolveViewer: func(*http.Request) module.Viewer { return module.Viewer{DisplayName: "Test"} },
		ResolveShop:   func(*http.Request) module.Shop { return module.Shop{Name: "Shop"} },
		SiteURL:       "https://shop.example.test/",
	})
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := base.ResolveRequestViewer(r); got.DisplayName != "Test" {
		t.Fatalf("ResolveRequestViewer() = %+v", got)
	}
	if got := base.ResolveRequestShop(r); got.Name != "Shop" {
		t.Fatalf("ResolveRequestShop() = %+v", got)
	}
	if got := base.SiteURL(); got != "https://shop.example.test" {
		t.Fatalf("SiteURL() = %q", got)
	}
}

func TestResolversReturnZeroWhenNil(t *testing.T) {
	t.Parallel()

	base := NewBase(module.Dependencies{})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := base.ResolveRequestViewer(r); got != (module.Viewer{}) {
		t.Fatalf("ResolveRequestViewer() = %+v, want zero Viewer", got)
	}
	if got := base.ResolveRequestShop(r); got != (module.Shop{}) {
		t.Fatalf("ResolveRequestShop() = %+v, want zero Shop", got)
	}
}

func TestWriteErrorRedirectsUnauthorizedToLogin(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	r := httptest.NewRequest(http.MethodGet, "/orders?page=2", nil)
	r.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "stale"})
	rr := httptest.NewRecorder()

	base.WriteError(rr, r, apperrors.FromAPI(http.StatusUnauthorized, "UNAUTHENTICATED", "expired"))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/login?next=%2Forders%3Fpage%3D2" {
		t.Fatalf("location = %q", got)
	}
	cleared := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("session cookie not cleared")
	}
}

func TestWriteErrorRendersPageForOtherKinds(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	NewTestBase().WriteError(rr, httptest.NewRequest(http.MethodGet, "/admin", nil), apperrors.E(apperrors.KindForbidden, "no"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Access denied") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestWriteForbidden(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	NewTestBase().WriteForbidden(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Access denied") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestNotifySetsFlashCookie(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	NewTestBase().Notify(rr, httptest.NewRequest(http.MethodPost, "/cart/add", nil), flashnotice.Success("core.flash.cart_added"))
	found := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == flashnotice.CookieName {
			found = true
		}
	}
	if !found {
		t.Fatal("flash cookie missing")
	}
}
