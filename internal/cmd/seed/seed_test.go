package seed

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_SEED_ADMIN_PASSWORD", "")
	cfg, err := ParseConfig(flag.NewFlagSet("seed", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/storefront.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.AdminEmail != "admin@storefront.local" {
		t.Fatalf("admin email = %q", cfg.AdminEmail)
	}
	if cfg.Generate != 0 || cfg.Seed != 0 || cfg.Verbose {
		t.Fatalf("unexpected generation defaults: %+v", cfg)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("STOREFRONT_SEED_ADMIN_EMAIL", "env@example.com")
	t.Setenv("STOREFRONT_SEED_ADMIN_PASSWORD", "from-env")

	cfg, err := ParseConfig(flag.NewFlagSet("seed", flag.ContinueOnError), []string{
		"-admin-email", "flag@example.com",
		"-generate", "12",
		"-seed", "99",
		"-v",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.AdminEmail != "flag@example.com" || cfg.AdminPassword != "from-env" {
		t.Fatalf("admin = %q/%q", cfg.AdminEmail, cfg.AdminPassword)
	}
	if cfg.Generate != 12 || cfg.Seed != 99 || !cfg.Verbose {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestRunSeedsDatabase(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Config{
		DBPath:        filepath.Join(t.TempDir(), "seed.db"),
		AdminEmail:    "owner@example.com",
		AdminPassword: "password123",
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "created superadmin owner@example.com") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
