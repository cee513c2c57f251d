package checkout

import (
	"context"
	"sync"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

type fakeGateway struct {
	mu        sync.Mutex
	products  map[string]storage.Product
	settings  storage.StoreSettings
	profile   storage.Profile
	meErr     error
	created   []orders.CreateInput
	createErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products: map[string]storage.Product{
			"linen-shirt": {
				ID: "p1", Name: "Linen Shirt", Slug: "linen-shirt", Price: 40, DiscountPrice: pricing.Float(30),
				IsDiscount: true, IsActive: true, Stock: 3, IsStock: true,
			},
			"mug": {ID: "p2", Name: "Mug", Slug: "mug", Price: 12, IsActive: true, Stock: 50, IsStock: true},
		},
		settings: storage.StoreSettings{Currency: "USD", FreeShippingThreshold: 100, StandardShippingFee: 7},
		profile:  storage.Profile{ID: "u1", Email: "ada@example.test", FirstName: "Ada", LastName: "Lovelace", Phone: "555"},
	}
}

func (f *fakeGateway) ProductBySlug(_ context.Context, slug string) (storage.Product, error) {
	product, ok := f.products[slug]
	if !ok {
		return storage.Product{}, apperrors.FromAPI(404, "NOT_FOUND", "product not found")
	}
	return product, nil
}

func (f *fakeGateway) Settings(context.Context) (storage.StoreSettings, error) {
	return f.settings, nil
}

func (f *fakeGateway) Me(context.Context) (storage.Profile, error) {
	return f.profile, f.meErr
}

func (f *fakeGateway) CreateOrder(_ context.Context, in orders.CreateInput) (storage.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	if f.createErr != nil {
		return storage.Order{}, f.createErr
	}
	return storage.Order{
		ID: "o1", IsGuest: in.IsGuest, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email,
		Cart: in.Cart, Status: storage.OrderPending, Subtotal: in.Subtotal, ShippingFee: in.ShippingFee, Total: in.Total,
	}, nil
}
