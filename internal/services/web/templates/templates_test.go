package templates

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/louisbranch/storefront/internal/platform/i18n/catalog"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"golang.org/x/text/language"
)

func TestEveryPageRendersEmptyView(t *testing.T) {
	t.Parallel()

	pages := map[string]any{
		"store/home":         HomeView{},
		"store/list":         StoreView{},
		"store/product":      ProductView{},
		"store/about":        InfoView{},
		"store/contact":      InfoView{},
		"store/confirmation": OrderView{},
		"cart/index":         CartView{},
		"checkout/index":     CheckoutView{},
		"account/login":      AuthView{},
		"account/register":   AuthView{},
		"account/profile":    ProfileView{},
		"account/orders":     OrdersView{},
		"account/order":      OrderView{},
		"error/page":         ErrorView{Status: 404, TitleKey: "error.page.not_found.title"},
		"admin/dashboard":    AdminDashboardView{},
		"admin/products":     AdminProductsView{},
		"admin/product_form": ProductFormView{},
		"admin/import":       ImportView{},
		"admin/orders":       AdminOrdersView{},
		"admin/order":        OrderView{},
		"admin/users":        AdminUsersView{},
		"admin/user":         AdminUserView{},
		"admin/settings":     AdminSettingsView{},
	}
	for name, view := range pages {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := Page(name, view).Render(context.Background(), &buf); err != nil {
				t.Fatalf("render: %v", err)
			}
		})
	}
}

func TestUnknownPageFails(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Page("store/missing", nil).Render(context.Background(), &buf); err == nil {
		t.Fatal("expected error for an undefined page")
	}
}

func TestLayoutWrapsChildren(t *testing.T) {
	t.Parallel()

	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hello</p>")
		return err
	})
	ctx := templ.WithChildren(context.Background(), body)
	var buf bytes.Buffer
	err := Layout(LayoutData{
		Title:          "Shop",
		Lang:           "en",
		Chrome:         Chrome{SiteName: "Corner Shop", CartCount: 3},
		StructuredData: map[string]string{"@type": "Product"},
	}).Render(ctx, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<p>hello</p>", "Corner Shop", `application/ld+json`, `id="cart-count"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("layout missing %q", want)
		}
	}
}

func TestPriceFollowsRenderContext(t *testing.T) {
	t.Parallel()

	ctx := WithRenderContext(context.Background(), RenderContext{Lang: language.French, Currency: "EUR"})
	var buf bytes.Buffer
	if err := Page("admin/users", AdminUsersView{}).Render(ctx, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "admin-users") {
		t.Fatal("page body missing")
	}
}

var keyPattern = regexp.MustCompile(`\bt "([a-z0-9_.]+)"`)

// templateKeys lists every literal catalog key the templates reference,
// plus the keys built at render time from enum values.
func templateKeys(t *testing.T) []string {
	t.Helper()
	seen := map[string]bool{}
	err := fs.WalkDir(sources, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := fs.ReadFile(sources, path)
		if err != nil {
			return err
		}
		for _, m := range keyPattern.FindAllStringSubmatch(string(raw), -1) {
			seen[m[1]] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk templates: %v", err)
	}
	for _, status := range storage.OrderStatuses {
		seen["core.status."+strings.ToLower(string(status))] = true
	}
	for _, role := range []access.Role{access.RoleClient, access.RoleAdmin, access.RoleSuperadmin} {
		seen["core.role."+string(role)] = true
	}
	for _, sort := range []storage.ProductSort{storage.SortNewest, storage.SortPriceAsc, storage.SortPriceDesc, storage.SortRating} {
		seen["store.sort."+string(sort)] = true
	}
	seen["store.payment.cash_on_delivery"] = true

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	return keys
}

func TestTemplateKeysExistInEveryLocale(t *testing.T) {
	t.Parallel()

	bundle := catalog.Default()
	keys := templateKeys(t)
	if len(keys) < 50 {
		t.Fatalf("found only %d keys; pattern is probably wrong", len(keys))
	}
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		for _, key := range keys {
			if _, ok := messages[key]; !ok {
				t.Errorf("%s: missing key %q", locale, key)
			}
		}
	}
}
