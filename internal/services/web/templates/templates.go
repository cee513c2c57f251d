// Package templates renders storefront pages as templ components backed by
// embedded html/template sources.
package templates

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"
	"time"

	"github.com/a-h/templ"
	platformi18n "github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"golang.org/x/text/language"
)

//go:embed layout.gohtml pages/*.gohtml
var sources embed.FS

// base holds the parsed template set; renders execute request-bound clones.
var base = template.Must(template.New("storefront").Funcs(funcs(defaultRenderContext())).ParseFS(sources, "layout.gohtml", "pages/*.gohtml"))

// RenderContext carries per-request formatting state.
type RenderContext struct {
	Localizer platformi18n.Localizer
	Lang      language.Tag
	Currency  string
}

type renderContextKey struct{}

// WithRenderContext attaches rc to ctx for components rendered below it.
func WithRenderContext(ctx context.Context, rc RenderContext) context.Context {
	return context.WithValue(ctx, renderContextKey{}, rc)
}

func renderContextFrom(ctx context.Context) RenderContext {
	rc, ok := ctx.Value(renderContextKey{}).(RenderContext)
	if !ok {
		return defaultRenderContext()
	}
	if rc.Localizer == nil {
		rc.Localizer = platformi18n.Printer(rc.Lang)
	}
	if strings.TrimSpace(rc.Currency) == "" {
		rc.Currency = defaultCurrency
	}
	return rc
}

const defaultCurrency = "TND"

func defaultRenderContext() RenderContext {
	tag := platformi18n.DefaultTag()
	return RenderContext{Localizer: platformi18n.Printer(tag), Lang: tag, Currency: defaultCurrency}
}

func funcs(rc RenderContext) template.FuncMap {
	return template.FuncMap{
		"t": func(key string, args ...any) string {
			return rc.Localizer.Sprintf(key, args...)
		},
		"price": func(amount float64) string {
			return platformi18n.FormatPrice(rc.Lang, rc.Currency, amount)
		},
		"date": func(value time.Time) string {
			if value.IsZero() {
				return ""
			}
			if platformi18n.ShortCode(rc.Lang) == "fr" {
				return value.Format("02/01/2006")
			}
			return value.Format("Jan 2, 2006")
		},
		"deref": func(value *float64) float64 {
			if value == nil {
				return 0
			}
			return *value
		},
		"unitPrice": pricing.UnitPrice,
		"lineTotal": pricing.LineTotal,
		"stars":     stars,
		"lower":     strings.ToLower,
		"add":       func(a, b int) int { return a + b },
		"statusKey": func(status any) string {
			return "core.status." + strings.ToLower(fmt.Sprint(status))
		},
		"roleKey": func(role any) string {
			return "core.role." + strings.ToLower(fmt.Sprint(role))
		},
		"amount": func(value float64) string {
			return fmt.Sprintf("%.2f", value)
		},
		"productURL":      routepath.Product,
		"reviewURL":       routepath.ProductReviews,
		"orderURL":        routepath.Order,
		"adminProductURL": routepath.AdminProduct,
		"adminOrderURL":   routepath.AdminOrder,
		"adminUserURL":    routepath.AdminUser,
		"checked": func(on bool) template.HTMLAttr {
			if on {
				return "checked"
			}
			return ""
		},
		"selected": func(a, b any) template.HTMLAttr {
			if fmt.Sprint(a) == fmt.Sprint(b) {
				return "selected"
			}
			return ""
		},
	}
}

// stars renders a 0-5 rating as filled and empty stars.
func stars(rating any) string {
	var filled int
	switch v := rating.(type) {
	case int:
		filled = v
	case float64:
		filled = int(math.Round(v))
	}
	if filled < 0 {
		filled = 0
	}
	if filled > 5 {
		filled = 5
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

func bound(ctx context.Context) (*template.Template, error) {
	clone, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone templates: %w", err)
	}
	return clone.Funcs(funcs(renderContextFrom(ctx))), nil
}

// Page renders the named page template with data.
func Page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if base.Lookup(name) == nil {
			return fmt.Errorf("template %q is not defined", name)
		}
		t, err := bound(ctx)
		if err != nil {
			return err
		}
		return t.ExecuteTemplate(w, name, data)
	})
}

// Notice is a toast shown once above the page content.
type Notice struct {
	Kind    string
	Message string
}

// LanguageLink is one entry of the language switcher.
type LanguageLink struct {
	Code   string
	URL    string
	Active bool
}

// Chrome is the signed-in and store state shown around every page.
type Chrome struct {
	SiteName    string
	SignedIn    bool
	IsStaff     bool
	DisplayName string
	CartCount   int
	Languages   []LanguageLink
}

// LayoutData describes the document shell around a page body.
type LayoutData struct {
	Title       string
	Description string
	Canonical   string
	Lang        string
	Chrome      Chrome
	Notice      *Notice
	// StructuredData is rendered as an application/ld+json script.
	StructuredData any
}

type layoutView struct {
	LayoutData
	Head template.HTML
	Main template.HTML
}

// Layout renders the full document; its templ children fill the main area.
func Layout(data LayoutData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		view := layoutView{LayoutData: data}
		var main bytes.Buffer
		if err := templ.GetChildren(ctx).Render(templ.ClearChildren(ctx), &main); err != nil {
			return err
		}
		view.Main = template.HTML(main.String())
		if data.StructuredData != nil {
			var head bytes.Buffer
			script := templ.JSONScript("structured-data", data.StructuredData).WithType("application/ld+json")
			if err := script.Render(ctx, &head); err != nil {
				return err
			}
			view.Head = template.HTML(head.String())
		}
		t, err := bound(ctx)
		if err != nil {
			return err
		}
		return t.ExecuteTemplate(w, "layout", view)
	})
}

// Fragment renders only the main area for HTMX swaps, with the notice, the
// title and an out-of-band cart count update.
func Fragment(data LayoutData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		view := layoutView{LayoutData: data}
		var main bytes.Buffer
		if err := templ.GetChildren(ctx).Render(templ.ClearChildren(ctx), &main); err != nil {
			return err
		}
		view.Main = template.HTML(main.String())
		t, err := bound(ctx)
		if err != nil {
			return err
		}
		return t.ExecuteTemplate(w, "fragment", view)
	})
}
