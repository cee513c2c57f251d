package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/storefront/internal/platform/cache"
	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/api/storage/sqlite"
)

var (
	staff  = requestctx.User{ID: "a1", Role: "admin"}
	client = requestctx.User{ID: "c1", Role: "client"}
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) CacheEvent(namespace, event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, namespace+":"+event)
}

func (l *eventLog) count(event string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e == CacheNamespace+":"+event {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) (*Service, *sqlite.Store, *eventLog) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	events := &eventLog{}
	ns := cache.NewNamespace(cache.NewMemory(time.Minute), CacheNamespace, time.Minute, events)
	seq := 0
	svc := NewService(store, Config{
		Cache: ns,
		Clock: func() time.Time {
			seq++
			return time.Date(2026, 1, 1, 0, 0, seq, 0, time.UTC)
		},
		IDGenerator: func() (string, error) {
			seq++
			return fmt.Sprintf("id-%03d", seq), nil
		},
	})
	return svc, store, events
}

func strPtr(s string) *string     { return &s }
func boolPtr(b bool) *bool        { return &b }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func mustCreate(t *testing.T, svc *Service, in ProductInput) storage.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), staff, in)
	if err != nil {
		t.Fatalf("create %v: %v", *in.Slug, err)
	}
	return p
}

func TestCreateDefaultsAndExplicitFalse(t *testing.T) {
	svc, _, _ := newTestService(t)

	p := mustCreate(t, svc, ProductInput{Name: strPtr("Shirt"), Slug: strPtr("Shirt"), Price: floatPtr(20)})
	if !p.IsActive || !p.IsStock || p.IsDraft || p.IsFeature || p.Stock != 0 || p.Slug != "shirt" {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	hidden := mustCreate(t, svc, ProductInput{
		Name: strPtr("Hidden"), Slug: strPtr("hidden"), Price: floatPtr(20),
		IsActive: boolPtr(false), IsStock: boolPtr(false),
	})
	if hidden.IsActive || hidden.IsStock {
		t.Fatalf("explicit false ignored: %+v", hidden)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, ProductInput{Name: strPtr("Shirt"), Slug: strPtr("shirt"), Price: floatPtr(20)})

	tests := []struct {
		name   string
		caller requestctx.User
		in     ProductInput
		code   apperrors.Code
	}{
		{name: "client", caller: client, in: ProductInput{Name: strPtr("A"), Slug: strPtr("a"), Price: floatPtr(1)}, code: apperrors.CodeForbidden},
		{name: "missing price", caller: staff, in: ProductInput{Name: strPtr("A"), Slug: strPtr("a")}, code: apperrors.CodeInvalidArgument},
		{name: "missing name", caller: staff, in: ProductInput{Slug: strPtr("a"), Price: floatPtr(1)}, code: apperrors.CodeInvalidArgument},
		{name: "bad slug", caller: staff, in: ProductInput{Name: strPtr("A"), Slug: strPtr("a b"), Price: floatPtr(1)}, code: apperrors.CodeInvalidArgument},
		{name: "negative price", caller: staff, in: ProductInput{Name: strPtr("A"), Slug: strPtr("a"), Price: floatPtr(-1)}, code: apperrors.CodeInvalidArgument},
		{name: "unknown category", caller: staff, in: ProductInput{Name: strPtr("A"), Slug: strPtr("a"), Price: floatPtr(1), CategoryID: strPtr("nope")}, code: apperrors.CodeInvalidArgument},
		{name: "slug taken", caller: staff, in: ProductInput{Name: strPtr("B"), Slug: strPtr("shirt"), Price: floatPtr(1)}, code: apperrors.CodeProductSlugTaken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.caller, tc.in)
			if apperrors.CodeOf(err) != tc.code {
				t.Fatalf("code = %s, want %s (err %v)", apperrors.CodeOf(err), tc.code, err)
			}
		})
	}
}

func TestListFiltersAndPaging(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	shirts, err := svc.CreateCategory(ctx, staff, CategoryInput{Name: strPtr("Shirts"), Slug: strPtr("shirts")})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	for i := 1; i <= 5; i++ {
		mustCreate(t, svc, ProductInput{
			Name: strPtr(fmt.Sprintf("Shirt %d", i)), Slug: strPtr(fmt.Sprintf("shirt-%d", i)),
			Price: floatPtr(float64(i * 10)), CategoryID: strPtr(shirts.ID), Stock: intPtr(i - 1),
		})
	}
	mustCreate(t, svc, ProductInput{Name: strPtr("Hat"), Slug: strPtr("hat"), Price: floatPtr(15), IsDiscount: boolPtr(true)})
	mustCreate(t, svc, ProductInput{Name: strPtr("Draft"), Slug: strPtr("draft"), Price: floatPtr(15), IsDraft: boolPtr(true)})

	page, err := svc.List(ctx, Filters{Limit: 4, Page: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Count != 6 || len(page.Data) != 2 || page.TotalPages != 2 || page.Page != 2 || page.Limit != 4 {
		t.Fatalf("unexpected page: count=%d len=%d pages=%d", page.Count, len(page.Data), page.TotalPages)
	}

	byCategory, err := svc.List(ctx, Filters{Category: "shirts", SortBy: storage.SortPriceDesc, InStock: true})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if byCategory.Count != 4 || byCategory.Data[0].Slug != "shirt-5" {
		t.Fatalf("unexpected category listing: count=%d first=%s", byCategory.Count, byCategory.Data[0].Slug)
	}

	unknown, err := svc.List(ctx, Filters{Category: "missing"})
	if err != nil {
		t.Fatalf("list unknown category: %v", err)
	}
	if unknown.Count != 6 {
		t.Fatalf("unknown category should be ignored, count=%d", unknown.Count)
	}

	sale, _ := svc.List(ctx, Filters{OnSale: true})
	if sale.Count != 1 || sale.Data[0].Slug != "hat" {
		t.Fatalf("unexpected on-sale listing: %+v", sale)
	}

	priced, _ := svc.List(ctx, Filters{MinPrice: floatPtr(20), MaxPrice: floatPtr(40)})
	if priced.Count != 3 {
		t.Fatalf("price range count = %d", priced.Count)
	}
	if _, err := svc.List(ctx, Filters{MinPrice: floatPtr(50), MaxPrice: floatPtr(10)}); apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
		t.Fatalf("expected invalid range, got %v", err)
	}
	if _, err := svc.List(ctx, Filters{SortBy: "cheapest"}); apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
		t.Fatalf("expected unknown sort to be rejected, got %v", err)
	}
	if _, err := svc.Drafts(ctx, staff, Filters{SortBy: "price asc"}); apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
		t.Fatalf("expected unknown draft sort to be rejected, got %v", err)
	}
	if newest, err := svc.List(ctx, Filters{SortBy: " "}); err != nil || newest.Count != 6 {
		t.Fatalf("blank sort should default to newest: %+v, %v", newest, err)
	}

	drafts, err := svc.Drafts(ctx, staff, Filters{})
	if err != nil || drafts.Count != 1 {
		t.Fatalf("drafts = %+v, %v", drafts, err)
	}
	if _, err := svc.Drafts(ctx, client, Filters{}); apperrors.CodeOf(err) != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden drafts, got %v", err)
	}
	all, err := svc.ListAll(ctx, staff, Filters{Limit: 100})
	if err != nil || all.Count != 7 {
		t.Fatalf("all = %d, %v", all.Count, err)
	}
}

func TestBySlugHidesUnpublished(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, ProductInput{Name: strPtr("Live"), Slug: strPtr("live"), Price: floatPtr(1)})
	draft := mustCreate(t, svc, ProductInput{Name: strPtr("Draft"), Slug: strPtr("draft"), Price: floatPtr(1), IsDraft: boolPtr(true)})
	mustCreate(t, svc, ProductInput{Name: strPtr("Off"), Slug: strPtr("off"), Price: floatPtr(1), IsActive: boolPtr(false)})

	if _, err := svc.BySlug(ctx, "live"); err != nil {
		t.Fatalf("by slug: %v", err)
	}
	for _, slug := range []string{"draft", "off", "missing"} {
		_, err := svc.BySlug(ctx, slug)
		domainErr, ok := apperrors.As(err)
		if !ok || domainErr.Code != apperrors.CodeNotFound || domainErr.Message != "Product not found" {
			t.Fatalf("slug %s: expected product not found, got %v", slug, err)
		}
	}
	if _, err := svc.ByID(ctx, staff, draft.ID); err != nil {
		t.Fatalf("staff by id: %v", err)
	}
	if _, err := svc.ByID(ctx, client, draft.ID); apperrors.CodeOf(err) != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, ProductInput{Name: strPtr("Shirt"), Slug: strPtr("shirt"), Price: floatPtr(30), DiscountPrice: floatPtr(25)})
	mustCreate(t, svc, ProductInput{Name: strPtr("Other"), Slug: strPtr("other"), Price: floatPtr(30)})

	updated, err := svc.Update(ctx, staff, p.ID, ProductInput{Price: floatPtr(35), IsFeature: boolPtr(true), ClearDiscount: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 35 || !updated.IsFeature || updated.DiscountPrice != nil || updated.Name != "Shirt" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("updated_at not advanced: %v <= %v", updated.UpdatedAt, updated.CreatedAt)
	}
	if _, err := svc.Update(ctx, staff, p.ID, ProductInput{Slug: strPtr("other")}); apperrors.CodeOf(err) != apperrors.CodeProductSlugTaken {
		t.Fatalf("expected slug taken, got %v", err)
	}
	if _, err := svc.Update(ctx, staff, "missing", ProductInput{}); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	msg, err := svc.Delete(ctx, staff, p.ID)
	if err != nil || msg.Message != "Product deleted successfully" {
		t.Fatalf("delete = %+v, %v", msg, err)
	}
	if _, err := svc.Delete(ctx, staff, p.ID); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHomeRailsAreCachedAndInvalidated(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, ProductInput{Name: strPtr("A"), Slug: strPtr("a"), Price: floatPtr(1), IsFeature: boolPtr(true)})

	for i := 0; i < 2; i++ {
		featured, err := svc.Featured(ctx, 0)
		if err != nil {
			t.Fatalf("featured: %v", err)
		}
		if len(featured) != 1 {
			t.Fatalf("featured = %d", len(featured))
		}
	}
	if events.count("hit") != 1 || events.count("miss") != 1 {
		t.Fatalf("events = %v", events.events)
	}

	mustCreate(t, svc, ProductInput{Name: strPtr("B"), Slug: strPtr("b"), Price: floatPtr(1), IsFeature: boolPtr(true)})
	featured, err := svc.Featured(ctx, 0)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 2 || featured[0].Slug != "b" {
		t.Fatalf("expected fresh featured list after write, got %d", len(featured))
	}

	recent, err := svc.Recent(ctx, 1)
	if err != nil || len(recent) != 1 {
		t.Fatalf("recent = %v, %v", recent, err)
	}
}

func TestCategories(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, client, CategoryInput{Name: strPtr("X"), Slug: strPtr("x")}); apperrors.CodeOf(err) != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	c, err := svc.CreateCategory(ctx, staff, CategoryInput{Name: strPtr("Shoes"), Slug: strPtr("shoes")})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, staff, CategoryInput{Name: strPtr("Dup"), Slug: strPtr("shoes")}); apperrors.CodeOf(err) != apperrors.CodeAlreadyExists {
		t.Fatalf("expected already exists, got %v", err)
	}
	list, err := svc.Categories(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("categories = %v, %v", list, err)
	}

	if _, err := svc.UpdateCategory(ctx, staff, c.ID, CategoryInput{IsActive: boolPtr(false)}); err != nil {
		t.Fatalf("update category: %v", err)
	}
	if _, err := svc.CategoryBySlug(ctx, "shoes"); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected inactive category hidden, got %v", err)
	}
	list, _ = svc.Categories(ctx)
	if len(list) != 0 {
		t.Fatalf("expected cache invalidated, got %v", list)
	}
	all, err := svc.AllCategories(ctx, staff)
	if err != nil || len(all) != 1 {
		t.Fatalf("all categories = %v, %v", all, err)
	}
}

func TestSitemapEntries(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, ProductInput{Name: strPtr("A"), Slug: strPtr("a"), Price: floatPtr(1)})
	if _, err := svc.CreateCategory(ctx, staff, CategoryInput{Name: strPtr("C"), Slug: strPtr("c")}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	entries, err := svc.SitemapEntries(ctx)
	if err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestImport(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateCategory(ctx, staff, CategoryInput{Name: strPtr("Shirts"), Slug: strPtr("shirts")}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	mustCreate(t, svc, ProductInput{Name: strPtr("Old"), Slug: strPtr("linen-shirt"), Price: floatPtr(10)})

	csvBody := strings.Join([]string{
		strings.Join(ImportColumns, ","),
		`Linen Shirt,linen-shirt,Soft,79.90,59.90,true,false,shirts,,25,"S,M,L",`,
		`Wool Hat,wool-hat,,30,,,true,,,3,,`,
		`Broken,broken,,abc,,,,,,,,`,
		`Lost,lost,,10,,,,nowhere,,,,`,
	}, "\n")

	summary, err := svc.Import(ctx, staff, strings.NewReader(csvBody))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Created != 1 || summary.Updated != 1 || summary.Failed != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Results[2].Line != 4 || summary.Results[2].Status != ImportFailed || summary.Results[2].Error == "" {
		t.Fatalf("unexpected failure row: %+v", summary.Results[2])
	}

	updated, err := store.GetProductBySlug(ctx, "linen-shirt")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if updated.Name != "Linen Shirt" || updated.Price != 79.9 || updated.DiscountPrice == nil || updated.Variation1 != "S,M,L" || updated.Category == nil {
		t.Fatalf("unexpected imported product: %+v", updated)
	}
	hat, err := store.GetProductBySlug(ctx, "wool-hat")
	if err != nil || !hat.IsFeature || hat.Stock != 3 {
		t.Fatalf("unexpected hat: %+v, %v", hat, err)
	}
}

func TestImportRejectsBadHeader(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for _, body := range []string{"", "name,slug\nA,a"} {
		if _, err := svc.Import(ctx, staff, strings.NewReader(body)); apperrors.CodeOf(err) != apperrors.CodeCSVInvalid {
			t.Fatalf("body %q: expected csv invalid, got %v", body, err)
		}
	}
	if _, err := svc.Import(ctx, client, strings.NewReader("")); apperrors.CodeOf(err) != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestTemplateRoundTripsThroughImport(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateCategory(ctx, staff, CategoryInput{Name: strPtr("Shirts"), Slug: strPtr("shirts")}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	summary, err := svc.Import(ctx, staff, strings.NewReader(string(Template())))
	if err != nil {
		t.Fatalf("import template: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
