package jwtsecret

import (
	"bytes"
	"flag"
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(flag.NewFlagSet("jwt-secret", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Bytes != 32 {
		t.Fatalf("expected default bytes 32, got %d", cfg.Bytes)
	}

	cfg, err = ParseConfig(flag.NewFlagSet("jwt-secret", flag.ContinueOnError), []string{"-bytes", "48"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Bytes != 48 {
		t.Fatalf("expected bytes 48, got %d", cfg.Bytes)
	}
}

func TestRunRejectsShortSecrets(t *testing.T) {
	if err := Run(Config{Bytes: MinBytes - 1}, &bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestRunWritesHex(t *testing.T) {
	buf := &bytes.Buffer{}
	reader := bytes.NewReader(bytes.Repeat([]byte{0xab}, MinBytes))
	if err := Run(Config{Bytes: MinBytes}, buf, reader); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "STOREFRONT_JWT_SECRET=" + strings.Repeat("ab", MinBytes)
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunNilOutput(t *testing.T) {
	if err := Run(Config{Bytes: 32}, nil, nil); err == nil {
		t.Fatal("expected error for nil output")
	}
}

func TestRunShortReader(t *testing.T) {
	if err := Run(Config{Bytes: 32}, &bytes.Buffer{}, bytes.NewReader([]byte{1, 2})); err == nil {
		t.Fatal("expected error for short reader")
	}
}
