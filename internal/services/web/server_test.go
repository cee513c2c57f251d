package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apiapp "github.com/louisbranch/storefront/internal/services/api/app"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

// newStack starts the API and the web service in process and returns the
// web origin plus a client that keeps cookies and does not follow
// redirects.
func newStack(t *testing.T) (string, *http.Client) {
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
	api := httptest.NewServer(runtime.Handler)
	t.Cleanup(api.Close)

	handler, err := NewHandler(Config{APIURL: api.URL + "/api", Transport: api.Client().Transport})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	site := httptest.NewServer(handler)
	t.Cleanup(site.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return site.URL, client
}

func fetch(t *testing.T, client *http.Client, method, target string, form url.Values, origin string) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(raw)
}

func TestPublicSurface(t *testing.T) {
	origin, client := newStack(t)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{path: "/", status: http.StatusOK, want: "<html"},
		{path: "/store", status: http.StatusOK},
		{path: "/cart", status: http.StatusOK},
		{path: "/login", status: http.StatusOK},
		{path: "/nope", status: http.StatusNotFound},
		{path: "/robots.txt", status: http.StatusOK, want: "Disallow: /admin/"},
		{path: "/sitemap.xml", status: http.StatusOK, want: "<urlset"},
		{path: "/static/storefront.css", status: http.StatusOK, want: ":root"},
		{path: "/up", status: http.StatusOK, want: `"status":"ok"`},
	}
	for _, tc := range tests {
		resp, body := fetch(t, client, http.MethodGet, origin+tc.path, nil, "")
		if resp.StatusCode != tc.status {
			t.Fatalf("GET %s status = %d, want %d", tc.path, resp.StatusCode, tc.status)
		}
		if tc.want != "" && !strings.Contains(body, tc.want) {
			t.Fatalf("GET %s body missing %q", tc.path, tc.want)
		}
	}
}

func TestHealthListsModules(t *testing.T) {
	origin, client := newStack(t)

	resp, body := fetch(t, client, http.MethodGet, origin+"/up", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var status healthStatus
	if err := json.Unmarshal([]byte(body), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, id := range []string{"storefront", "cart", "checkout", "publicauth", "seo", "account", "orders", "admin"} {
		if !status.Modules[id] {
			t.Fatalf("module %q not healthy: %+v", id, status.Modules)
		}
	}
}

func TestAccountFlow(t *testing.T) {
	origin, client := newStack(t)

	resp, _ := fetch(t, client, http.MethodGet, origin+"/account", nil, "")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login?next=%2Faccount" {
		t.Fatalf("anonymous account: status = %d location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, body := fetch(t, client, http.MethodPost, origin+"/register", url.Values{
		"email":     {"grace@example.test"},
		"password":  {"correct horse battery"},
		"firstName": {"Grace"},
		"lastName":  {"Hopper"},
		"next":      {"/account"},
	}, "")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/account" {
		t.Fatalf("register: status = %d location = %q body = %s", resp.StatusCode, resp.Header.Get("Location"), body)
	}

	resp, body = fetch(t, client, http.MethodGet, origin+"/account", nil, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "grace@example.test") {
		t.Fatalf("account: status = %d", resp.StatusCode)
	}

	resp, _ = fetch(t, client, http.MethodGet, origin+"/admin", nil, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer admin status = %d, want 403", resp.StatusCode)
	}

	resp, _ = fetch(t, client, http.MethodPost, origin+"/logout", url.Values{}, "https://evil.example.test")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-origin logout status = %d, want 403", resp.StatusCode)
	}

	resp, _ = fetch(t, client, http.MethodPost, origin+"/logout", url.Values{}, origin)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	resp, _ = fetch(t, client, http.MethodGet, origin+"/orders", nil, "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("orders after logout status = %d, want login redirect", resp.StatusCode)
	}
}

func TestNewHandlerRequiresAPIURL(t *testing.T) {
	if _, err := NewHandler(Config{}); err == nil {
		t.Fatal("expected error without api url")
	}
}

func TestRunRequiresAddr(t *testing.T) {
	if err := Run(context.Background(), Config{APIURL: "http://localhost:8081/api"}); err == nil {
		t.Fatal("expected error for missing address")
	}
}

func TestServeStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, listener, Config{APIURL: "http://127.0.0.1:1/api"})
	}()

	transport := &http.Transport{}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	target := "http://" + listener.Addr().String() + "/robots.txt"

	var resp *http.Response
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err = client.Get(target)
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("get robots: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	transport.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
