package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
)

func TestWriteReadClear(t *testing.T) {
	t.Parallel()

	policy := requestmeta.SchemePolicy{TrustForwardedProto: true}
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	rec := httptest.NewRecorder()
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	Write(rec, req, policy, " token-1 ", expires)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Value != "token-1" || !cookie.Secure || !cookie.HttpOnly {
		t.Fatalf("cookie = %+v", cookie)
	}
	if !cookie.Expires.Equal(expires) {
		t.Fatalf("expires = %s", cookie.Expires)
	}

	next := httptest.NewRequest(http.MethodGet, "/account", nil)
	next.AddCookie(cookie)
	if token, ok := Read(next); !ok || token != "token-1" {
		t.Fatalf("Read() = %q, %v", token, ok)
	}

	clearRec := httptest.NewRecorder()
	Clear(clearRec, req, policy)
	if cleared := clearRec.Result().Cookies(); len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cleared)
	}
}

func TestReadMissingOrBlank(t *testing.T) {
	t.Parallel()

	if _, ok := Read(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("expected no session")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: "  "})
	if _, ok := Read(req); ok {
		t.Fatal("expected blank session to be ignored")
	}
}
