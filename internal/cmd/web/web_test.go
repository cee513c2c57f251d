package web

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(flag.NewFlagSet("web", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, ":8080")
	}
	if cfg.APIURL != "http://localhost:8081/api" {
		t.Fatalf("api_url = %q", cfg.APIURL)
	}
	if cfg.TrustForwardedProto {
		t.Fatal("forwarded proto trusted by default")
	}
	if cfg.APITimeout != 10*time.Second || cfg.ShopCacheTTL != time.Minute {
		t.Fatalf("durations = %s/%s", cfg.APITimeout, cfg.ShopCacheTTL)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_WEB_ADDR", ":9000")
	t.Setenv("STOREFRONT_SITE_URL", "https://shop.example.test")
	t.Setenv("STOREFRONT_TRUST_FORWARDED_PROTO", "true")

	cfg, err := ParseConfig(flag.NewFlagSet("web", flag.ContinueOnError), []string{
		"-addr", ":9001",
		"-api-url", "http://api:8081/api",
		"-api-timeout", "3s",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != ":9001" {
		t.Fatalf("addr = %q, want flag to win", cfg.Addr)
	}
	if cfg.APIURL != "http://api:8081/api" || cfg.SiteURL != "https://shop.example.test" {
		t.Fatalf("urls = %q %q", cfg.APIURL, cfg.SiteURL)
	}
	if !cfg.TrustForwardedProto || cfg.APITimeout != 3*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
}
