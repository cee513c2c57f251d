// Package i18n defines the supported storefront languages and the
// locale-aware formatting helpers shared by the web service.
package i18n

import (
	"fmt"
	"strings"

	"github.com/louisbranch/storefront/internal/platform/i18n/catalog"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.MustParse(catalog.BaseLocale),
	language.MustParse("fr-FR"),
}

var matcher = language.NewMatcher(supported)

// Localizer formats catalog messages for one language.
type Localizer interface {
	Sprintf(key message.Reference, a ...any) string
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return supported[0]
}

// SupportedTags returns the languages with a translation catalog.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// ParseTag parses value and maps it onto a supported language. The bool is
// false when value is unparseable or matches nothing supported.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supported[index], true
}

// MatchTags picks the best supported language for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}

// ShortCode returns the two-letter language code used in html lang
// attributes and language switch links.
func ShortCode(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Printer returns a catalog-backed printer for tag. Catalog messages are
// registered when the catalog package initializes.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// FormatPrice renders amount in the ISO 4217 currency code using the
// language's number conventions. Unknown codes fall back to the amount with
// two decimals followed by the code.
func FormatPrice(tag language.Tag, code string, amount float64) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}
	return message.NewPrinter(tag).Sprint(currency.Symbol(unit.Amount(amount)))
}
