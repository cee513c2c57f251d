package storefront

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/storefront/internal/services/api/reviews"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/louisbranch/storefront/internal/services/web/templates"
	"golang.org/x/sync/errgroup"
)

const (
	homeShelfSize = 8
	storePageSize = 12
)

var productSorts = []storage.ProductSort{
	storage.SortNewest,
	storage.SortPriceAsc,
	storage.SortPriceDesc,
	storage.SortRating,
}

type service struct {
	gateway CatalogGateway
}

func newService(gateway CatalogGateway) service {
	return service{gateway: gateway}
}

// loadHome fetches the home shelves in parallel.
func (s service) loadHome(ctx context.Context) (templates.HomeView, error) {
	var view templates.HomeView
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		settings, err := s.gateway.Settings(gctx)
		if err != nil {
			return err
		}
		view.SiteName = settings.SiteName
		view.Description = settings.SiteDescription
		for _, slide := range settings.Slides {
			if slide.IsActive {
				view.Slides = append(view.Slides, slide)
			}
		}
		return nil
	})
	group.Go(func() error {
		featured, err := s.gateway.FeaturedProducts(gctx, homeShelfSize)
		view.Featured = featured
		return err
	})
	group.Go(func() error {
		recent, err := s.gateway.RecentProducts(gctx, homeShelfSize)
		view.Recent = recent
		return err
	})
	group.Go(func() error {
		categories, err := s.gateway.Categories(gctx)
		view.Categories = categories
		return err
	})
	if err := group.Wait(); err != nil {
		return templates.HomeView{}, err
	}
	return view, nil
}

// parseStoreFilters reads listing filters from the query string. Invalid
// numbers and unknown sorts are dropped rather than rejected.
func parseStoreFilters(values url.Values) (templates.StoreFilters, apiclient.ProductQuery) {
	filters := templates.StoreFilters{
		Search:   strings.TrimSpace(values.Get("search")),
		Category: strings.TrimSpace(values.Get("category")),
		InStock:  values.Get("inStock") == "true",
		OnSale:   values.Get("onSale") == "true",
	}
	query := apiclient.ProductQuery{
		Search:   filters.Search,
		Category: filters.Category,
		Limit:    storePageSize,
		InStock:  filters.InStock,
		OnSale:   filters.OnSale,
	}
	sort := storage.ProductSort(strings.TrimSpace(values.Get("sortBy")))
	for _, known := range productSorts {
		if sort == known {
			filters.SortBy = string(sort)
			query.SortBy = string(sort)
		}
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		query.Page = page
	}
	if value, ok := parsePrice(values.Get("minPrice")); ok {
		filters.MinPrice = values.Get("minPrice")
		query.MinPrice = &value
	}
	if value, ok := parsePrice(values.Get("maxPrice")); ok {
		filters.MaxPrice = values.Get("maxPrice")
		query.MaxPrice = &value
	}
	return filters, query
}

func parsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

func (s service) loadStore(ctx context.Context, u *url.URL) (templates.StoreView, error) {
	filters, query := parseStoreFilters(u.Query())
	view := templates.StoreView{Filters: filters, Sorts: productSorts}
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		page, err := s.gateway.Products(gctx, query)
		if err != nil {
			return err
		}
		view.Products = page.Data
		view.Count = page.Count
		view.Pager = templates.NewPager(u, max(page.Page, 1), page.TotalPages)
		return nil
	})
	group.Go(func() error {
		categories, err := s.gateway.Categories(gctx)
		view.Categories = categories
		return err
	})
	if err := group.Wait(); err != nil {
		return templates.StoreView{}, err
	}
	return view, nil
}

func (s service) loadProduct(ctx context.Context, slug string) (storage.Product, []storage.Review, error) {
	product, err := s.gateway.ProductBySlug(ctx, slug)
	if err != nil {
		return storage.Product{}, nil, err
	}
	productReviews, err := s.gateway.ProductReviews(ctx, product.ID)
	if err != nil {
		return storage.Product{}, nil, err
	}
	return product, productReviews, nil
}

// splitVariations turns "S, M,L" into its trimmed options.
func splitVariations(raw string) []string {
	var options []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			options = append(options, part)
		}
	}
	return options
}

func parseReview(values url.Values) (reviews.CreateInput, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(values.Get("rating")))
	if err != nil || rating < 1 || rating > 5 {
		return reviews.CreateInput{}, apperrors.EK(apperrors.KindInvalidInput, "error.api.invalid", "rating must be between 1 and 5")
	}
	return reviews.CreateInput{Rating: rating, Comment: strings.TrimSpace(values.Get("comment"))}, nil
}

func (s service) createReview(ctx context.Context, slug string, in reviews.CreateInput) error {
	product, err := s.gateway.ProductBySlug(ctx, slug)
	if err != nil {
		return err
	}
	_, err = s.gateway.CreateReview(ctx, product.ID, in)
	return err
}

func (s service) settings(ctx context.Context) (storage.StoreSettings, error) {
	return s.gateway.Settings(ctx)
}

func (s service) order(ctx context.Context, orderID string) (storage.Order, error) {
	return s.gateway.Order(ctx, orderID)
}
