package publicauth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/services/web/module"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/louisbranch/storefront/internal/services/web/platform/sessioncookie"
)

func mountAuth(t *testing.T, gateway AuthGateway, viewer module.Viewer) http.Handler {
	t.Helper()
	mount, err := New(gateway, module.Dependencies{
		ResolveViewer: func(*http.Request) module.Viewer { return viewer },
	}).Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if mount.Prefix != "" || len(mount.Paths) != 3 {
		t.Fatalf("mount = %+v", mount)
	}
	return mount.Handler
}

func post(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name {
			return cookie
		}
	}
	return nil
}

func TestLoginPageKeepsSafeNext(t *testing.T) {
	t.Parallel()

	h := mountAuth(t, &fakeGateway{}, module.Viewer{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login?next=%2Fcheckout", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `name="next" value="/checkout"`) {
		t.Fatalf("status = %d body = %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login?next=https%3A%2F%2Fevil.example.test", nil))
	if strings.Contains(rr.Body.String(), "evil.example.test") {
		t.Fatal("external next rendered")
	}
}

func TestSignedInVisitorSkipsLogin(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountAuth(t, &fakeGateway{}, module.Viewer{SignedIn: true}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login?next=%2Forders", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/orders" {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountAuth(t, &fakeGateway{}, module.Viewer{}).ServeHTTP(rr, post("/login", url.Values{
		"email": {"ada@example.test"}, "password": {"correct horse"}, "next": {"/checkout"},
	}))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/checkout" {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
	cookie := sessionCookie(rr)
	if cookie == nil || cookie.Value != "token-ada" || !cookie.HttpOnly {
		t.Fatalf("session cookie = %+v", cookie)
	}
	if !cookie.Expires.Equal(fakeExpiry) {
		t.Fatalf("expires = %v", cookie.Expires)
	}
}

func TestLoginRejectsExternalNext(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountAuth(t, &fakeGateway{}, module.Viewer{}).ServeHTTP(rr, post("/login", url.Values{
		"email": {"ada@example.test"}, "password": {"correct horse"}, "next": {"//evil.example.test"},
	}))
	if rr.Header().Get("Location") != "/" {
		t.Fatalf("location = %q", rr.Header().Get("Location"))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountAuth(t, &fakeGateway{}, module.Viewer{}).ServeHTTP(rr, post("/login", url.Values{
		"email": {"ada@example.test"}, "password": {"nope"},
	}))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Wrong email or password.") || !strings.Contains(body, `value="ada@example.test"`) {
		t.Fatalf("body = %q", body)
	}
	if sessionCookie(rr) != nil {
		t.Fatal("session cookie written on failure")
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	valid := url.Values{
		"email": {"new@example.test"}, "password": {"longenough"}, "firstName": {"New"}, "lastName": {"Person"}, "phone": {"555"},
	}
	short := url.Values{"email": {"new@example.test"}, "password": {"short"}, "firstName": {"New"}, "lastName": {"Person"}}
	badEmail := url.Values{"email": {"nope"}, "password": {"longenough"}, "firstName": {"New"}, "lastName": {"Person"}}

	tests := []struct {
		name     string
		form     url.Values
		err      error
		status   int
		text     string
		gatewayN int
	}{
		{name: "success", form: valid, status: http.StatusSeeOther, gatewayN: 1},
		{name: "short password", form: short, status: http.StatusBadRequest, text: "at least 8 characters"},
		{name: "bad email", form: badEmail, status: http.StatusBadRequest, text: "valid email address"},
		{name: "missing names", form: url.Values{"email": {"new@example.test"}, "password": {"longenough"}}, status: http.StatusBadRequest, text: "every required field"},
		{
			name: "taken email", form: valid, status: http.StatusConflict, text: "already exists", gatewayN: 1,
			err: apperrors.FromAPI(http.StatusConflict, "ALREADY_EXISTS", "Email already registered"),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gateway := &fakeGateway{registerErr: tc.err}
			rr := httptest.NewRecorder()
			mountAuth(t, gateway, module.Viewer{}).ServeHTTP(rr, post("/register", tc.form))
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d; body = %q", rr.Code, tc.status, rr.Body.String())
			}
			if len(gateway.registered) != tc.gatewayN {
				t.Fatalf("gateway calls = %d, want %d", len(gateway.registered), tc.gatewayN)
			}
			if tc.text != "" && !strings.Contains(rr.Body.String(), tc.text) {
				t.Fatalf("body missing %q: %q", tc.text, rr.Body.String())
			}
			if tc.status == http.StatusSeeOther {
				if cookie := sessionCookie(rr); cookie == nil || cookie.Value != "token-new" {
					t.Fatalf("session cookie = %+v", cookie)
				}
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	t.Parallel()

	req := post("/logout", url.Values{})
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "token-ada"})
	rr := httptest.NewRecorder()
	mountAuth(t, &fakeGateway{}, module.Viewer{SignedIn: true}).ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
	if cookie := sessionCookie(rr); cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("session cookie = %+v, want cleared", cookie)
	}
}

func TestLoginUnavailable(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountAuth(t, nil, module.Viewer{}).ServeHTTP(rr, post("/login", url.Values{"email": {"a@example.test"}, "password": {"x"}}))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}
