package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/reviews"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

// ProductQuery mirrors the product listing query parameters.
type ProductQuery struct {
	Search   string
	Category string
	SortBy   string
	Page     int
	Limit    int
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
	OnSale   bool
}

// Values encodes q as API query parameters.
func (q ProductQuery) Values() url.Values {
	values := url.Values{}
	setString := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	setString("search", q.Search)
	setString("category", q.Category)
	setString("sortBy", q.SortBy)
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.MinPrice != nil {
		values.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		values.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.InStock {
		values.Set("inStock", "true")
	}
	if q.OnSale {
		values.Set("onSale", "true")
	}
	return values
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

// Products lists published products.
func (c *Client) Products(ctx context.Context, q ProductQuery) (catalog.ProductPage, error) {
	var page catalog.ProductPage
	err := c.call(ctx, request{method: http.MethodGet, path: "/products", query: q.Values()}, &page)
	return page, err
}

// FeaturedProducts lists featured products.
func (c *Client) FeaturedProducts(ctx context.Context, limit int) ([]storage.Product, error) {
	var products []storage.Product
	err := c.call(ctx, request{method: http.MethodGet, path: "/products/featured", query: limitQuery(limit)}, &products)
	return products, err
}

// RecentProducts lists the newest products.
func (c *Client) RecentProducts(ctx context.Context, limit int) ([]storage.Product, error) {
	var products []storage.Product
	err := c.call(ctx, request{method: http.MethodGet, path: "/products/recent", query: limitQuery(limit)}, &products)
	return products, err
}

// ProductBySlug loads one published product.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (storage.Product, error) {
	var product storage.Product
	err := c.call(ctx, request{method: http.MethodGet, path: "/products/" + url.PathEscape(slug)}, &product)
	return product, err
}

// ProductReviews lists reviews of a product.
func (c *Client) ProductReviews(ctx context.Context, productID string) ([]storage.Review, error) {
	var list []storage.Review
	err := c.call(ctx, request{method: http.MethodGet, path: "/products/" + url.PathEscape(productID) + "/reviews"}, &list)
	return list, err
}

// CreateReview posts a review as the signed-in user.
func (c *Client) CreateReview(ctx context.Context, productID string, in reviews.CreateInput) (storage.Review, error) {
	var review storage.Review
	err := c.call(ctx, request{method: http.MethodPost, path: "/products/" + url.PathEscape(productID) + "/reviews", body: in}, &review)
	return review, err
}

// Categories lists active categories.
func (c *Client) Categories(ctx context.Context) ([]storage.Category, error) {
	var list []storage.Category
	err := c.call(ctx, request{method: http.MethodGet, path: "/categories"}, &list)
	return list, err
}

// AllCategories lists every category (staff).
func (c *Client) AllCategories(ctx context.Context) ([]storage.Category, error) {
	var list []storage.Category
	err := c.call(ctx, request{method: http.MethodGet, path: "/categories/all"}, &list)
	return list, err
}

// CreateCategory adds a category (staff).
func (c *Client) CreateCategory(ctx context.Context, in catalog.CategoryInput) (storage.Category, error) {
	var category storage.Category
	err := c.call(ctx, request{method: http.MethodPost, path: "/categories", body: in}, &category)
	return category, err
}

// AdminProducts lists every product regardless of state (staff).
func (c *Client) AdminProducts(ctx context.Context, q ProductQuery) (catalog.ProductPage, error) {
	var page catalog.ProductPage
	err := c.call(ctx, request{method: http.MethodGet, path: "/products/admin", query: q.Values()}, &page)
	return page, err
}

// DraftProducts lists drafts (staff).
func (c *Client) DraftProducts(ctx context.Context, q ProductQuery) (catalog.ProductPage, error) {
	var page catalog.ProductPage
	err := c.call(ctx, request{method: http.MethodGet, path: "/products/drafts", query: q.Values()}, &page)
	return page, err
}

// AdminProduct loads any product by id (staff).
func (c *Client) AdminProduct(ctx context.Context, productID string) (storage.Product, error) {
	var product storage.Product
	err := c.call(ctx, request{method: http.MethodGet, path: "/products/admin/" + url.PathEscape(productID)}, &product)
	return product, err
}

// CreateProduct adds a product (staff).
func (c *Client) CreateProduct(ctx context.Context, in catalog.ProductInput) (storage.Product, error) {
	var product storage.Product
	err := c.call(ctx, request{method: http.MethodPost, path: "/products", body: in}, &product)
	return product, err
}

// UpdateProduct patches a product (staff).
func (c *Client) UpdateProduct(ctx context.Context, productID string, in catalog.ProductInput) (storage.Product, error) {
	var product storage.Product
	err := c.call(ctx, request{method: http.MethodPut, path: "/products/" + url.PathEscape(productID), body: in}, &product)
	return product, err
}

// DeleteProduct removes a product (staff).
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.call(ctx, request{method: http.MethodDelete, path: "/products/" + url.PathEscape(productID)}, nil)
}

// ImportProducts uploads a product CSV (staff).
func (c *Client) ImportProducts(ctx context.Context, csv io.Reader) (catalog.ImportSummary, error) {
	var summary catalog.ImportSummary
	err := c.call(ctx, request{method: http.MethodPost, path: "/products/import", rawBody: csv, contentType: "text/csv"}, &summary)
	return summary, err
}

// ImportTemplate downloads the product CSV template.
func (c *Client) ImportTemplate(ctx context.Context) ([]byte, error) {
	return c.send(ctx, request{method: http.MethodGet, path: "/products/import/template"})
}

// SitemapEntries lists public catalog pages.
func (c *Client) SitemapEntries(ctx context.Context) ([]storage.SitemapEntry, error) {
	var entries []storage.SitemapEntry
	err := c.call(ctx, request{method: http.MethodGet, path: "/sitemap"}, &entries)
	return entries, err
}
