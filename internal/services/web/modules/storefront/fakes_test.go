package storefront

import (
	"context"
	"sync"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/reviews"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

type fakeGateway struct {
	mu         sync.Mutex
	products   map[string]storage.Product
	reviews    map[string][]storage.Review
	categories []storage.Category
	settings   storage.StoreSettings
	orders     map[string]storage.Order
	lastQuery  apiclient.ProductQuery
	created    []reviews.CreateInput
	createErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products: map[string]storage.Product{
			"linen-shirt": {
				ID: "p1", Name: "Linen Shirt", Slug: "linen-shirt", Description: "Breathable linen.",
				Price: 40, DiscountPrice: pricing.Float(32), IsDiscount: true, IsFeature: true, IsActive: true,
				Stock: 5, IsStock: true, Variation1: "S, M,L", Rating: 4, ReviewCount: 1,
				Category: &storage.CategoryRef{Name: "Shirts", Slug: "shirts"},
			},
			"old-hat": {ID: "p2", Name: "Old Hat", Slug: "old-hat", Price: 15, IsActive: true},
		},
		reviews: map[string][]storage.Review{
			"p1": {{ID: "r1", ProductID: "p1", Rating: 4, Comment: "Lovely fabric", FirstName: "Ada", LastName: "L"}},
		},
		categories: []storage.Category{{ID: "c1", Name: "Shirts", Slug: "shirts", IsActive: true}},
		settings: storage.StoreSettings{
			SiteName: "Corner Shop", SiteDescription: "Fine goods", Currency: "TND",
			ContactEmail: "hello@shop.example.test", ContactPhone: "+216 555", Address: "1 Main St",
			Slides: []storage.Slide{
				{ID: "s1", Title: "Summer sale", ButtonText: "Shop", ButtonLink: "/store", IsActive: true},
				{ID: "s2", Title: "Hidden slide", IsActive: false},
			},
		},
		orders: map[string]storage.Order{},
	}
}

func (f *fakeGateway) Products(_ context.Context, q apiclient.ProductQuery) (catalog.ProductPage, error) {
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	page := catalog.ProductPage{Page: max(q.Page, 1), Limit: q.Limit, TotalPages: 3}
	for _, product := range f.products {
		page.Data = append(page.Data, product)
	}
	page.Count = len(page.Data)
	return page, nil
}

func (f *fakeGateway) FeaturedProducts(context.Context, int) ([]storage.Product, error) {
	return []storage.Product{f.products["linen-shirt"]}, nil
}

func (f *fakeGateway) RecentProducts(context.Context, int) ([]storage.Product, error) {
	return []storage.Product{f.products["old-hat"]}, nil
}

func (f *fakeGateway) ProductBySlug(_ context.Context, slug string) (storage.Product, error) {
	product, ok := f.products[slug]
	if !ok {
		return storage.Product{}, apperrors.FromAPI(404, "NOT_FOUND", "product not found")
	}
	return product, nil
}

func (f *fakeGateway) ProductReviews(_ context.Context, productID string) ([]storage.Review, error) {
	return f.reviews[productID], nil
}

func (f *fakeGateway) CreateReview(_ context.Context, _ string, in reviews.CreateInput) (storage.Review, error) {
	if f.createErr != nil {
		return storage.Review{}, f.createErr
	}
	f.mu.Lock()
	f.created = append(f.created, in)
	f.mu.Unlock()
	return storage.Review{Rating: in.Rating, Comment: in.Comment}, nil
}

func (f *fakeGateway) Categories(context.Context) ([]storage.Category, error) {
	return f.categories, nil
}

func (f *fakeGateway) Settings(context.Context) (storage.StoreSettings, error) {
	return f.settings, nil
}

func (f *fakeGateway) Order(_ context.Context, orderID string) (storage.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return storage.Order{}, apperrors.FromAPI(404, "NOT_FOUND", "order not found")
	}
	return order, nil
}
