package i18nstatus

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/louisbranch/storefront/internal/platform/i18n/catalog"
)

func testBundle(t *testing.T) *catalog.Bundle {
	t.Helper()
	bundle, err := catalog.LoadFromFS(fstest.MapFS{
		"locales/en-US/store.yaml": {Data: []byte("locale: en-US\nnamespace: store\nmessages:\n  store.home: Home\n  store.cart: Cart\n")},
		"locales/en-US/admin.yaml": {Data: []byte("locale: en-US\nnamespace: admin\nmessages:\n  admin.title: Admin\n")},
		"locales/fr-FR/store.yaml": {Data: []byte("locale: fr-FR\nnamespace: store\nmessages:\n  store.home: Accueil\n  store.legacy: Ancien\n")},
		"locales/fr-FR/admin.yaml": {Data: []byte("locale: fr-FR\nnamespace: admin\nmessages:\n  admin.title: Administration\n")},
	})
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return bundle
}

func TestBuildCountsMissingAndExtraKeys(t *testing.T) {
	t.Parallel()

	rep := Build(testBundle(t), "en-US")
	if len(rep.Locales) != 2 || rep.Locales[0].Locale != "en-US" || rep.Locales[1].Locale != "fr-FR" {
		t.Fatalf("locales = %+v", rep.Locales)
	}
	fr := rep.Locales[1]
	if fr.Translated != 2 || fr.BaseKeys != 3 {
		t.Fatalf("fr translated = %d/%d, want 2/3", fr.Translated, fr.BaseKeys)
	}
	if fr.Completion != 66.7 {
		t.Fatalf("completion = %v, want 66.7", fr.Completion)
	}
	if strings.Join(fr.MissingKeys, ",") != "store.cart" {
		t.Fatalf("missing = %v", fr.MissingKeys)
	}
	if strings.Join(fr.ExtraKeys, ",") != "store.legacy" {
		t.Fatalf("extra = %v", fr.ExtraKeys)
	}
	if rep.Complete() {
		t.Fatal("report should be incomplete")
	}
	summary := rep.Summary()
	for _, want := range []string{"fr-FR", "missing store.cart", "1 extra"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestRunCheckFailsOnMissingKeys(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(testBundle(t), Config{BaseLocale: "en-US", Check: true}, &out)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("err = %v, want ErrIncomplete", err)
	}
	if out.Len() == 0 {
		t.Fatal("summary should still be printed")
	}
}

func TestRunRejectsUnknownBaseLocale(t *testing.T) {
	t.Parallel()

	if err := run(testBundle(t), Config{BaseLocale: "de-DE"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "i18n.json")
	if err := run(testBundle(t), Config{BaseLocale: "en-US", JSONOut: path}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !strings.Contains(string(data), `"base_locale": "en-US"`) {
		t.Fatalf("json = %s", data)
	}
}

func TestEmbeddedCatalogsAreComplete(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := Run(Config{BaseLocale: catalog.BaseLocale, Check: true}, &out); err != nil {
		t.Fatalf("run: %v\n%s", err, out.String())
	}
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig(flag.NewFlagSet("i18n-status", flag.ContinueOnError), []string{"-check", "-json-out", "out.json"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cfg.Check || cfg.JSONOut != "out.json" || cfg.BaseLocale != catalog.BaseLocale {
		t.Fatalf("cfg = %+v", cfg)
	}
}
