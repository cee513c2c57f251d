package products

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/storefront/internal/services/api/catalog"
)

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	body := strings.Join(append([]string{strings.Join(catalog.ImportColumns, ",")}, rows...), "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestParseConfigRequiresFile(t *testing.T) {
	if _, err := ParseConfig(flag.NewFlagSet("import", flag.ContinueOnError), nil); err == nil {
		t.Fatal("expected error without -file")
	}
	cfg, err := ParseConfig(flag.NewFlagSet("import", flag.ContinueOnError), []string{"-file", "p.csv", "-strict"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.File != "p.csv" || !cfg.Strict || cfg.DBPath != filepath.Join("data", "storefront.db") {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestRunImportsAndReportsFailures(t *testing.T) {
	file := writeCSV(t,
		"Mug,mug,Stoneware mug,12,,false,false,,,5,,",
		"Bad,bad,,not-a-price,,,,,,,,",
	)
	var out bytes.Buffer
	cfg := Config{File: file, DBPath: filepath.Join(t.TempDir(), "shop.db")}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "created 1, updated 0, failed 1") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "line 3 (bad)") {
		t.Fatalf("missing failure line:\n%s", out.String())
	}

	cfg.Strict = true
	if err := Run(context.Background(), cfg, &out); err == nil {
		t.Fatal("expected strict mode to fail")
	}
}

func TestRunJSONSummary(t *testing.T) {
	file := writeCSV(t, "Mug,mug,,12,,,,,,,,")
	var out bytes.Buffer
	cfg := Config{File: file, DBPath: filepath.Join(t.TempDir(), "shop.db"), JSON: true}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var summary catalog.ImportSummary
	if err := json.Unmarshal(out.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out.String())
	}
	if summary.Created != 1 || len(summary.Results) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunMissingFile(t *testing.T) {
	err := Run(context.Background(), Config{File: filepath.Join(t.TempDir(), "missing.csv"), DBPath: filepath.Join(t.TempDir(), "x.db")}, nil)
	if err == nil {
		t.Fatal("expected open error")
	}
}
