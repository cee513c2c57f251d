package cart

import (
	"context"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

type fakeGateway struct {
	products map[string]storage.Product
	settings storage.StoreSettings
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products: map[string]storage.Product{
			"linen-shirt": {
				ID: "p1", Name: "Linen Shirt", Slug: "linen-shirt", Price: 40, DiscountPrice: pricing.Float(30),
				IsDiscount: true, IsActive: true, Stock: 3, IsStock: true, Variation1: "S, M",
			},
			"mug":     {ID: "p2", Name: "Mug", Slug: "mug", Price: 12, IsActive: true, Stock: 50, IsStock: true},
			"old-hat": {ID: "p3", Name: "Old Hat", Slug: "old-hat", Price: 15, IsActive: true, IsStock: false},
		},
		settings: storage.StoreSettings{SiteName: "Corner Shop", Currency: "USD", FreeShippingThreshold: 100, StandardShippingFee: 7},
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
