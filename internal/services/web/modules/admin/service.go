package admin

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	"github.com/louisbranch/storefront/internal/services/web/templates"
	"golang.org/x/sync/errgroup"
)

const (
	productPageSize = 20
	orderPageSize   = 20
)

type service struct {
	gateway Gateway
}

func newService(gateway Gateway) service {
	return service{gateway: gateway}
}

func pageParam(values url.Values) int {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s service) products(ctx context.Context, u *url.URL, drafts bool) (templates.AdminProductsView, error) {
	values := u.Query()
	q := apiclient.ProductQuery{
		Search: formValue(values, "search"),
		Page:   pageParam(values),
		Limit:  productPageSize,
	}
	list := s.gateway.AdminProducts
	if drafts {
		list = s.gateway.DraftProducts
	}
	page, err := list(ctx, q)
	if err != nil {
		return templates.AdminProductsView{}, err
	}
	return templates.AdminProductsView{
		Products: page.Data,
		Count:    page.Count,
		Search:   q.Search,
		Drafts:   drafts,
		Pager:    templates.NewPager(u, q.Page, page.TotalPages),
	}, nil
}

// productEditor loads the product and the category picker together.
func (s service) productEditor(ctx context.Context, productID string) (storage.Product, []storage.Category, error) {
	var product storage.Product
	var categories []storage.Category
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		product, err = s.gateway.AdminProduct(gctx, productID)
		return err
	})
	group.Go(func() error {
		var err error
		categories, err = s.gateway.AllCategories(gctx)
		return err
	})
	if err := group.Wait(); err != nil {
		return storage.Product{}, nil, err
	}
	return product, categories, nil
}

func (s service) saveProduct(ctx context.Context, productID string, form templates.ProductForm) (storage.Product, error) {
	in, err := productInput(form)
	if err != nil {
		return storage.Product{}, err
	}
	if productID == "" {
		in.ClearDiscount = false
		return s.gateway.CreateProduct(ctx, in)
	}
	return s.gateway.UpdateProduct(ctx, productID, in)
}

func (s service) orders(ctx context.Context, u *url.URL) (templates.AdminOrdersView, error) {
	values := u.Query()
	status, filter := orderFilter(values.Get("status"))
	q := apiclient.OrderQuery{
		Filter:  filter,
		OrderBy: "created_at desc",
		Page:    pageParam(values),
		Limit:   orderPageSize,
	}
	result, err := s.gateway.ListOrders(ctx, q)
	if err != nil {
		return templates.AdminOrdersView{}, err
	}
	return templates.AdminOrdersView{
		Orders:   result.Data,
		Count:    result.Count,
		Status:   status,
		Statuses: storage.OrderStatuses,
		Pager:    templates.NewPager(u, q.Page, result.TotalPages),
	}, nil
}

func (s service) importProducts(ctx context.Context, csv io.Reader) (catalog.ImportSummary, error) {
	return s.gateway.ImportProducts(ctx, csv)
}
