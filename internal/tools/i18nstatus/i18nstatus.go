// Package i18nstatus reports how complete each storefront locale is against
// the base catalog.
package i18nstatus

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/louisbranch/storefront/internal/platform/i18n/catalog"
)

// ErrIncomplete is returned in check mode when a locale lacks base keys.
var ErrIncomplete = errors.New("translations are incomplete")

// Config holds the report options.
type Config struct {
	BaseLocale string
	JSONOut    string
	Check      bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{BaseLocale: catalog.BaseLocale}
	fs.StringVar(&cfg.BaseLocale, "base-locale", cfg.BaseLocale, "locale every other locale is compared with")
	fs.StringVar(&cfg.JSONOut, "json-out", "", "optional path for a JSON copy of the report")
	fs.BoolVar(&cfg.Check, "check", false, "fail when any locale is missing keys")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Report is the coverage of every locale.
type Report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []LocaleStatus `json:"locales"`
}

// LocaleStatus is the coverage of one locale.
type LocaleStatus struct {
	Locale      string            `json:"locale"`
	Translated  int               `json:"translated"`
	BaseKeys    int               `json:"base_keys"`
	Completion  float64           `json:"completion"`
	Namespaces  []NamespaceStatus `json:"namespaces"`
	MissingKeys []string          `json:"missing_keys"`
	ExtraKeys   []string          `json:"extra_keys"`
}

// NamespaceStatus is the coverage of one namespace (store, admin, ...).
type NamespaceStatus struct {
	Namespace  string  `json:"namespace"`
	Translated int     `json:"translated"`
	BaseKeys   int     `json:"base_keys"`
	Completion float64 `json:"completion"`
}

// Complete reports whether no locale misses a base key.
func (r Report) Complete() bool {
	for _, locale := range r.Locales {
		if len(locale.MissingKeys) > 0 {
			return false
		}
	}
	return true
}

// Run builds the report from the embedded catalogs and prints a summary.
func Run(cfg Config, out io.Writer) error {
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	return run(bundle, cfg, out)
}

func run(bundle *catalog.Bundle, cfg Config, out io.Writer) error {
	if !bundle.HasLocale(cfg.BaseLocale) {
		return fmt.Errorf("base locale %q is not in the catalogs", cfg.BaseLocale)
	}
	rep := Build(bundle, cfg.BaseLocale)
	if cfg.JSONOut != "" {
		if err := writeJSON(cfg.JSONOut, rep); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(out, rep.Summary()); err != nil {
		return err
	}
	if cfg.Check && !rep.Complete() {
		return ErrIncomplete
	}
	return nil
}

// Build compares every locale of bundle with baseLocale.
func Build(bundle *catalog.Bundle, baseLocale string) Report {
	base := bundle.LocaleMessages(baseLocale)
	rep := Report{BaseLocale: baseLocale}
	for _, locale := range slices.Sorted(slices.Values(bundle.Locales())) {
		messages := bundle.LocaleMessages(locale)
		missing := difference(base, messages)
		status := LocaleStatus{
			Locale:      locale,
			BaseKeys:    len(base),
			Translated:  len(base) - len(missing),
			MissingKeys: missing,
			ExtraKeys:   difference(messages, base),
		}
		status.Completion = percent(status.Translated, status.BaseKeys)
		for _, namespace := range bundle.Namespaces(baseLocale) {
			baseNS := bundle.NamespaceMessages(baseLocale, namespace)
			translated := len(baseNS) - len(difference(baseNS, bundle.NamespaceMessages(locale, namespace)))
			status.Namespaces = append(status.Namespaces, NamespaceStatus{
				Namespace:  namespace,
				BaseKeys:   len(baseNS),
				Translated: translated,
				Completion: percent(translated, len(baseNS)),
			})
		}
		rep.Locales = append(rep.Locales, status)
	}
	return rep
}

// Summary renders the report as plain text for a terminal or CI log.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "base locale %s\n", r.BaseLocale)
	for _, locale := range r.Locales {
		fmt.Fprintf(&b, "%-6s %5.1f%% (%d/%d)", locale.Locale, locale.Completion, locale.Translated, locale.BaseKeys)
		if n := len(locale.ExtraKeys); n > 0 {
			fmt.Fprintf(&b, ", %d extra", n)
		}
		b.WriteByte('\n')
		for _, ns := range locale.Namespaces {
			if ns.Translated < ns.BaseKeys {
				fmt.Fprintf(&b, "  %-8s %5.1f%%\n", ns.Namespace, ns.Completion)
			}
		}
		for _, key := range locale.MissingKeys {
			fmt.Fprintf(&b, "  missing %s\n", key)
		}
	}
	return b.String()
}

func writeJSON(path string, rep Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// difference returns the sorted keys of a that b lacks.
func difference(a, b map[string]string) []string {
	out := []string{}
	for _, key := range slices.Sorted(maps.Keys(a)) {
		if _, ok := b[key]; !ok {
			out = append(out, key)
		}
	}
	return out
}

func percent(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	value := float64(numerator) * 100 / float64(denominator)
	return math.Round(value*10) / 10
}
