package admin

import (
	"context"
	"io"
	"sync"

	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/dashboard"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/profiles"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
)

type fakeGateway struct {
	mu sync.Mutex

	products   map[string]storage.Product
	categories []storage.Category
	orders     map[string]storage.Order
	profiles   map[string]storage.Profile
	settings   storage.StoreSettings

	productQueries []apiclient.ProductQuery
	orderQueries   []apiclient.OrderQuery
	created        []catalog.ProductInput
	updated        map[string]catalog.ProductInput
	orderUpdates   map[string]orders.UpdateInput
	profileUpdates map[string]profiles.AdminUpdate
	deleted        []string
	imported       string
	savedSettings  []storage.StoreSettings

	writeErr  error
	importErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products: map[string]storage.Product{
			"p1": {ID: "p1", Name: "Linen Shirt", Slug: "linen-shirt", Price: 40, IsActive: true, Stock: 3, IsStock: true, CategoryID: "c1"},
		},
		categories: []storage.Category{{ID: "c1", Name: "Shirts", Slug: "shirts"}},
		orders: map[string]storage.Order{
			"o1": {ID: "o1", FirstName: "Grace", LastName: "Hopper", Email: "grace@example.test", Status: storage.OrderPending, Total: 67},
		},
		profiles: map[string]storage.Profile{
			"u1": {ID: "u1", Email: "ada@example.test", FirstName: "Ada", Role: access.RoleSuperadmin},
			"u2": {ID: "u2", Email: "bob@example.test", FirstName: "Bob", Role: access.RoleClient},
		},
		settings: storage.StoreSettings{
			SiteName: "Corner Shop", Currency: "USD", StandardShippingFee: 7,
			Slides: []storage.Slide{{ID: "s1", Title: "Summer", ImageURL: "/summer.jpg", IsActive: true}},
		},
		updated:        map[string]catalog.ProductInput{},
		orderUpdates:   map[string]orders.UpdateInput{},
		profileUpdates: map[string]profiles.AdminUpdate{},
	}
}

func notFound() error {
	return apperrors.FromAPI(404, "NOT_FOUND", "not found")
}

func (f *fakeGateway) Stats(context.Context) (dashboard.Overview, error) {
	return dashboard.Overview{RecentOrders: []storage.Order{f.orders["o1"]}}, nil
}

func (f *fakeGateway) page(q apiclient.ProductQuery, drafts bool) catalog.ProductPage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productQueries = append(f.productQueries, q)
	var out []storage.Product
	for _, p := range f.products {
		if p.IsDraft == drafts {
			out = append(out, p)
		}
	}
	return catalog.ProductPage{Data: out, Count: len(out), Page: q.Page, Limit: q.Limit, TotalPages: 3}
}

func (f *fakeGateway) AdminProducts(_ context.Context, q apiclient.ProductQuery) (catalog.ProductPage, error) {
	return f.page(q, false), nil
}

func (f *fakeGateway) DraftProducts(_ context.Context, q apiclient.ProductQuery) (catalog.ProductPage, error) {
	return f.page(q, true), nil
}

func (f *fakeGateway) AdminProduct(_ context.Context, productID string) (storage.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return storage.Product{}, notFound()
	}
	return p, nil
}

func (f *fakeGateway) CreateProduct(_ context.Context, in catalog.ProductInput) (storage.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	if f.writeErr != nil {
		return storage.Product{}, f.writeErr
	}
	return storage.Product{ID: "p9", Name: *in.Name, Slug: *in.Slug}, nil
}

func (f *fakeGateway) UpdateProduct(_ context.Context, productID string, in catalog.ProductInput) (storage.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[productID] = in
	if f.writeErr != nil {
		return storage.Product{}, f.writeErr
	}
	return storage.Product{ID: productID}, nil
}

func (f *fakeGateway) DeleteProduct(_ context.Context, productID string) error {
	return f.remove("product:" + productID)
}

func (f *fakeGateway) remove(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGateway) ImportProducts(_ context.Context, csv io.Reader) (catalog.ImportSummary, error) {
	body, err := io.ReadAll(csv)
	if err != nil {
		return catalog.ImportSummary{}, err
	}
	f.mu.Lock()
	f.imported = string(body)
	f.mu.Unlock()
	if f.importErr != nil {
		return catalog.ImportSummary{}, f.importErr
	}
	return catalog.ImportSummary{Created: 2, Updated: 1}, nil
}

func (f *fakeGateway) ImportTemplate(context.Context) ([]byte, error) {
	return []byte("name,slug,price\n"), nil
}

func (f *fakeGateway) AllCategories(context.Context) ([]storage.Category, error) {
	return f.categories, nil
}

func (f *fakeGateway) ListOrders(_ context.Context, q apiclient.OrderQuery) (orders.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderQueries = append(f.orderQueries, q)
	return orders.ListResult{Data: []storage.Order{f.orders["o1"]}, Count: 1, Page: q.Page, Limit: q.Limit, TotalPages: 1}, nil
}

func (f *fakeGateway) Order(_ context.Context, orderID string) (storage.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return storage.Order{}, notFound()
	}
	return o, nil
}

func (f *fakeGateway) UpdateOrder(_ context.Context, orderID string, in orders.UpdateInput) (storage.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return storage.Order{}, f.writeErr
	}
	f.orderUpdates[orderID] = in
	return f.orders[orderID], nil
}

func (f *fakeGateway) DeleteOrder(_ context.Context, orderID string) error {
	return f.remove("order:" + orderID)
}

func (f *fakeGateway) Profiles(context.Context) ([]storage.Profile, error) {
	return []storage.Profile{f.profiles["u1"], f.profiles["u2"]}, nil
}

func (f *fakeGateway) Profile(_ context.Context, userID string) (storage.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return storage.Profile{}, notFound()
	}
	return p, nil
}

func (f *fakeGateway) UpdateProfile(_ context.Context, userID string, in profiles.AdminUpdate) (storage.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return storage.Profile{}, f.writeErr
	}
	f.profileUpdates[userID] = in
	return f.profiles[userID], nil
}

func (f *fakeGateway) DeleteProfile(_ context.Context, userID string) error {
	return f.remove("user:" + userID)
}

func (f *fakeGateway) Settings(context.Context) (storage.StoreSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, nil
}

func (f *fakeGateway) UpdateSettings(_ context.Context, in storage.StoreSettings) (storage.StoreSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return storage.StoreSettings{}, f.writeErr
	}
	f.savedSettings = append(f.savedSettings, in)
	f.settings = in
	return in, nil
}
