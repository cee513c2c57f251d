package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/profiles"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/module"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/louisbranch/storefront/internal/services/web/platform/sessioncookie"
)

type fakeGateway struct {
	profile storage.Profile
	updates []profiles.SelfUpdate
	meErr   error
}

func (f *fakeGateway) Me(context.Context) (storage.Profile, error) {
	return f.profile, f.meErr
}

func (f *fakeGateway) UpdateMe(_ context.Context, in profiles.SelfUpdate) (storage.Profile, error) {
	f.updates = append(f.updates, in)
	return f.profile, nil
}

func newFake() *fakeGateway {
	return &fakeGateway{profile: storage.Profile{ID: "u1", Email: "ada@example.test", FirstName: "Ada", LastName: "Lovelace", Role: access.RoleClient}}
}

func mountAccount(t *testing.T, gateway ProfileGateway) http.Handler {
	t.Helper()
	mount, err := New(gateway, module.Dependencies{
		ResolveViewer: func(*http.Request) module.Viewer { return module.Viewer{SignedIn: true, UserID: "u1"} },
	}).Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return mount.Handler
}

func TestProfilePage(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountAccount(t, newFake()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/account", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	for _, marker := range []string{`value="ada@example.test"`, `name="firstName" value="Ada"`, "Customer"} {
		if !strings.Contains(rr.Body.String(), marker) {
			t.Fatalf("body missing %q: %q", marker, rr.Body.String())
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	gateway := newFake()
	form := url.Values{"firstName": {" Augusta "}, "lastName": {"King"}, "phone": {"555"}}
	req := httptest.NewRequest(http.MethodPost, "/account", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	mountAccount(t, gateway).ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/account" {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
	if len(gateway.updates) != 1 || *gateway.updates[0].FirstName != "Augusta" || *gateway.updates[0].Phone != "555" {
		t.Fatalf("updates = %+v", gateway.updates)
	}
}

func TestUpdateProfileRequiresNames(t *testing.T) {
	t.Parallel()

	gateway := newFake()
	req := httptest.NewRequest(http.MethodPost, "/account", strings.NewReader("firstName=&lastName=King"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	mountAccount(t, gateway).ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(gateway.updates) != 0 {
		t.Fatal("update sent for invalid form")
	}
}

func TestExpiredSessionRedirectsToLogin(t *testing.T) {
	t.Parallel()

	gateway := newFake()
	gateway.meErr = apperrors.FromAPI(http.StatusUnauthorized, "UNAUTHENTICATED", "expired")
	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "stale"})
	rr := httptest.NewRecorder()
	mountAccount(t, gateway).ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login?next=%2Faccount" {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
}
