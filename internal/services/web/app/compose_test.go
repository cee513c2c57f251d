package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/sessioncookie"
)

type stubModule struct {
	id    string
	mount module.Mount
}

func (s stubModule) ID() string { return s.id }

func (s stubModule) Mount() (module.Mount, error) { return s.mount, nil }

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func viewerOf(v module.Viewer) module.ResolveViewer {
	return func(*http.Request) module.Viewer { return v }
}

func TestComposeRejectsInvalidMounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input ComposeInput
		want  string
	}{
		{
			name: "duplicate prefix",
			input: ComposeInput{PublicModules: []module.Module{
				stubModule{id: "one", mount: module.Mount{Prefix: "/one/", Handler: noContent()}},
				stubModule{id: "two", mount: module.Mount{Prefix: "/one/", Handler: noContent()}},
			}},
			want: "duplicates route",
		},
		{
			name: "duplicate path across groups",
			input: ComposeInput{
				PublicModules:    []module.Module{stubModule{id: "one", mount: module.Mount{Paths: []string{"/cart"}, Handler: noContent()}}},
				ProtectedModules: []module.Module{stubModule{id: "two", mount: module.Mount{Paths: []string{"/cart"}, Handler: noContent()}}},
			},
			want: "duplicates route",
		},
		{
			name:  "nil public module",
			input: ComposeInput{PublicModules: []module.Module{nil}},
			want:  "public module is nil",
		},
		{
			name:  "nil staff module",
			input: ComposeInput{StaffModules: []module.Module{nil}},
			want:  "staff module is nil",
		},
		{
			name:  "prefix without slash",
			input: ComposeInput{PublicModules: []module.Module{stubModule{id: "x", mount: module.Mount{Prefix: "/x", Handler: noContent()}}}},
			want:  "must start and end with /",
		},
		{
			name:  "no routes",
			input: ComposeInput{PublicModules: []module.Module{stubModule{id: "x", mount: module.Mount{Handler: noContent()}}}},
			want:  "prefix or paths are required",
		},
		{
			name:  "missing handler",
			input: ComposeInput{PublicModules: []module.Module{stubModule{id: "x", mount: module.Mount{Prefix: "/x/"}}}},
			want:  "handler is required",
		},
		{
			name:  "admin route in public group",
			input: ComposeInput{PublicModules: []module.Module{stubModule{id: "x", mount: module.Mount{Prefix: "/admin/", Handler: noContent()}}}},
			want:  "reserved for staff",
		},
		{
			name:  "staff module outside admin",
			input: ComposeInput{StaffModules: []module.Module{stubModule{id: "x", mount: module.Mount{Prefix: "/reports/", Handler: noContent()}}}},
			want:  "must be under /admin/",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Composer{}.Compose(tc.input)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Compose() error = %v, want %q", err, tc.want)
			}
		})
	}
}

func composeAll(t *testing.T, viewer module.Viewer) http.Handler {
	t.Helper()
	h, err := Composer{}.Compose(ComposeInput{
		Viewer: viewerOf(viewer),
		PublicModules: []module.Module{
			stubModule{id: "store", mount: module.Mount{Prefix: "/", Handler: noContent()}},
			stubModule{id: "auth", mount: module.Mount{Paths: []string{"/login"}, Handler: noContent()}},
		},
		ProtectedModules: []module.Module{
			stubModule{id: "account", mount: module.Mount{Prefix: "/account/", Paths: []string{"/account"}, Handler: noContent()}},
		},
		StaffModules: []module.Module{
			stubModule{id: "admin", mount: module.Mount{Prefix: "/admin/", Paths: []string{"/admin"}, Handler: noContent()}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	return h
}

func TestComposeGuards(t *testing.T) {
	t.Parallel()

	anonymous := module.Viewer{}
	customer := module.Viewer{SignedIn: true, UserID: "u2", Role: "client"}
	admin := module.Viewer{SignedIn: true, UserID: "u1", Role: "admin"}

	tests := []struct {
		name     string
		viewer   module.Viewer
		path     string
		status   int
		location string
	}{
		{name: "public open", viewer: anonymous, path: "/store", status: http.StatusNoContent},
		{name: "public exact path", viewer: anonymous, path: "/login", status: http.StatusNoContent},
		{name: "protected redirects with next", viewer: anonymous, path: "/account?tab=1", status: http.StatusFound, location: "/login?next=%2Faccount%3Ftab%3D1"},
		{name: "protected subtree", viewer: anonymous, path: "/account/orders", status: http.StatusFound, location: "/login?next=%2Faccount%2Forders"},
		{name: "protected signed in", viewer: customer, path: "/account", status: http.StatusNoContent},
		{name: "staff anonymous", viewer: anonymous, path: "/admin", status: http.StatusFound, location: "/login?next=%2Fadmin"},
		{name: "staff customer", viewer: customer, path: "/admin/products", status: http.StatusForbidden},
		{name: "staff admin", viewer: admin, path: "/admin/products", status: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			composeAll(t, tc.viewer).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			if got := rr.Header().Get("Location"); got != tc.location {
				t.Fatalf("Location = %q, want %q", got, tc.location)
			}
		})
	}
}

func TestComposeStaffForbiddenHandler(t *testing.T) {
	t.Parallel()

	h, err := Composer{}.Compose(ComposeInput{
		Viewer: viewerOf(module.Viewer{SignedIn: true, Role: "client"}),
		StaffModules: []module.Module{
			stubModule{id: "admin", mount: module.Mount{Prefix: "/admin/", Handler: noContent()}},
		},
		Forbidden: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want custom forbidden handler", rr.Code)
	}
}

func TestComposeCookieMutationsNeedSameOrigin(t *testing.T) {
	t.Parallel()

	customer := module.Viewer{SignedIn: true, UserID: "u2", Role: "client"}
	tests := []struct {
		name   string
		path   string
		cookie bool
		origin string
		want   int
	}{
		{name: "public without session", path: "/cart/add", want: http.StatusNoContent},
		{name: "public cross origin", path: "/cart/add", cookie: true, origin: "https://evil.example.test", want: http.StatusForbidden},
		{name: "public missing proof", path: "/logout", cookie: true, want: http.StatusForbidden},
		{name: "protected same origin", path: "/account", cookie: true, origin: "https://shop.example.test", want: http.StatusNoContent},
		{name: "protected cross origin", path: "/account", cookie: true, origin: "https://evil.example.test", want: http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "https://shop.example.test"+tc.path, nil)
			req.Host = "shop.example.test"
			if tc.cookie {
				req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "token"})
			}
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			composeAll(t, customer).ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}
