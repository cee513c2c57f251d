package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newRequest(target string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return req
}

func TestHasSameOriginProof(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		req    *http.Request
		policy SchemePolicy
		want   bool
	}{
		{
			name: "origin same host",
			req:  newRequest("http://shop.example.test/cart/add", map[string]string{"Origin": "http://shop.example.test"}),
			want: true,
		},
		{
			name: "referer fallback",
			req:  newRequest("http://shop.example.test/logout", map[string]string{"Referer": "http://shop.example.test/account"}),
			want: true,
		},
		{
			name: "cross origin",
			req:  newRequest("http://shop.example.test/cart/add", map[string]string{"Origin": "http://evil.example.test"}),
			want: false,
		},
		{
			name: "port mismatch",
			req:  newRequest("http://shop.example.test:8080/cart/add", map[string]string{"Origin": "http://shop.example.test:9090"}),
			want: false,
		},
		{
			name: "no proof",
			req:  newRequest("http://shop.example.test/cart/add", nil),
			want: false,
		},
		{
			name: "untrusted forwarded proto is ignored",
			req: newRequest("http://shop.example.test/checkout", map[string]string{
				"Origin":            "https://shop.example.test",
				"X-Forwarded-Proto": "https",
			}),
			want: false,
		},
		{
			name: "trusted forwarded proto is used",
			req: newRequest("http://shop.example.test/checkout", map[string]string{
				"Origin":            "https://shop.example.test",
				"X-Forwarded-Proto": "https",
			}),
			policy: SchemePolicy{TrustForwardedProto: true},
			want:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.policy.HasSameOriginProof(tc.req); got != tc.want {
				t.Fatalf("HasSameOriginProof() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "http://shop.example.test/", nil)
	if (SchemePolicy{}).IsHTTPS(plain) {
		t.Fatal("plain request reported as https")
	}

	secure := httptest.NewRequest(http.MethodGet, "https://shop.example.test/", nil)
	secure.TLS = &tls.ConnectionState{}
	if !(SchemePolicy{}).IsHTTPS(secure) {
		t.Fatal("tls request not reported as https")
	}

	forwarded := httptest.NewRequest(http.MethodGet, "http://shop.example.test/", nil)
	forwarded.Header.Set("X-Forwarded-Proto", "https")
	if (SchemePolicy{}).IsHTTPS(forwarded) {
		t.Fatal("forwarded proto trusted without policy")
	}
	if !(SchemePolicy{TrustForwardedProto: true}).IsHTTPS(forwarded) {
		t.Fatal("forwarded proto ignored with policy")
	}
}
