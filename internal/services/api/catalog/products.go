package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/storefront/internal/platform/cache"
	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/pagination"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var listPageSize = pagination.PageSizeConfig{Default: 12, Max: 100}

var errProductNotFound = apperrors.New(apperrors.CodeNotFound, "Product not found")

// Filters narrows a product listing.
type Filters struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
	OnSale   bool
	SortBy   storage.ProductSort
	Page     int
	Limit    int
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Data       []storage.Product `json:"data"`
	Count      int               `json:"count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// ProductInput carries product fields. On create, nil fields take their
// defaults; on update, nil fields are left unchanged.
type ProductInput struct {
	Name          *string  `json:"name,omitempty"`
	Slug          *string  `json:"slug,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	IsDiscount    *bool    `json:"isDiscount,omitempty"`
	IsFeature     *bool    `json:"isFeature,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
	IsDraft       *bool    `json:"isDraft,omitempty"`
	CategoryID    *string  `json:"categoryId,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	IsStock       *bool    `json:"isStock,omitempty"`
	Variation1    *string  `json:"variation1,omitempty"`
	Variation2    *string  `json:"variation2,omitempty"`
	// ClearDiscount removes the discount price on update.
	ClearDiscount bool `json:"clearDiscount,omitempty"`
}

// Message is the acknowledgement returned by deletions.
type Message struct {
	Message string `json:"message"`
}

var productOrder = pagination.OrderByConfig{
	Default: string(storage.SortNewest),
	Allowed: []string{
		string(storage.SortNewest),
		string(storage.SortPriceAsc),
		string(storage.SortPriceDesc),
		string(storage.SortRating),
	},
}

// parseSort defaults a blank sort to newest and rejects unknown values.
func parseSort(sort storage.ProductSort) (storage.ProductSort, error) {
	value, err := pagination.NormalizeOrderBy(string(sort), productOrder)
	if err != nil {
		return "", apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("sortBy must be one of %s", strings.Join(productOrder.Allowed, ", ")))
	}
	return storage.ProductSort(value), nil
}

// resolveCategory maps a category slug to its id. Unknown slugs are
// ignored rather than matching nothing.
func (s *Service) resolveCategory(ctx context.Context, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", nil
	}
	category, err := s.store.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve category: %w", err)
	}
	return category.ID, nil
}

func (s *Service) listPage(ctx context.Context, visibility storage.ProductVisibility, f Filters) (ProductPage, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return ProductPage{}, apperrors.New(apperrors.CodeInvalidArgument, "minPrice must not exceed maxPrice")
	}
	sort, err := parseSort(f.SortBy)
	if err != nil {
		return ProductPage{}, err
	}
	categoryID, err := s.resolveCategory(ctx, f.Category)
	if err != nil {
		return ProductPage{}, err
	}
	page := pagination.Normalize(f.Page, f.Limit, listPageSize)
	query := storage.ProductQuery{
		Visibility: visibility,
		Search:     strings.TrimSpace(f.Search),
		CategoryID: categoryID,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		InStock:    f.InStock,
		OnSale:     f.OnSale,
		Sort:       sort,
		Limit:      page.Size,
		Offset:     page.Offset(),
	}

	var (
		products []storage.Product
		count    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.store.ListProducts(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.store.CountProducts(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return ProductPage{}, fmt.Errorf("list products: %w", err)
	}

	return ProductPage{
		Data:       products,
		Count:      count,
		Page:       page.Number,
		Limit:      page.Size,
		TotalPages: pagination.TotalPages(count, page.Size),
	}, nil
}

// List returns one page of published products.
func (s *Service) List(ctx context.Context, f Filters) (ProductPage, error) {
	if err := s.ready(); err != nil {
		return ProductPage{}, err
	}
	return s.listPage(ctx, storage.VisiblePublished, f)
}

// Drafts returns one page of draft products. Staff only.
func (s *Service) Drafts(ctx context.Context, caller requestctx.User, f Filters) (ProductPage, error) {
	if err := s.ready(); err != nil {
		return ProductPage{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return ProductPage{}, err
	}
	f.MinPrice, f.MaxPrice, f.InStock, f.OnSale = nil, nil, false, false
	return s.listPage(ctx, storage.VisibleDrafts, f)
}

// ListAll returns one page of every product, whatever its state. Staff only.
func (s *Service) ListAll(ctx context.Context, caller requestctx.User, f Filters) (ProductPage, error) {
	if err := s.ready(); err != nil {
		return ProductPage{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return ProductPage{}, err
	}
	return s.listPage(ctx, storage.VisibleAll, f)
}

// Featured returns published featured products, newest first.
func (s *Service) Featured(ctx context.Context, limit int) ([]storage.Product, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	limit = homeLimit(limit)
	return cache.Remember(ctx, s.cache, limitKey("featured", limit), func(ctx context.Context) ([]storage.Product, error) {
		return s.store.ListProducts(ctx, storage.ProductQuery{FeaturedOnly: true, Limit: limit})
	})
}

// Recent returns the newest published products.
func (s *Service) Recent(ctx context.Context, limit int) ([]storage.Product, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	limit = homeLimit(limit)
	return cache.Remember(ctx, s.cache, limitKey("recent", limit), func(ctx context.Context) ([]storage.Product, error) {
		return s.store.ListProducts(ctx, storage.ProductQuery{Limit: limit})
	})
}

// BySlug returns a published product.
func (s *Service) BySlug(ctx context.Context, slug string) (storage.Product, error) {
	if err := s.ready(); err != nil {
		return storage.Product{}, err
	}
	if strings.TrimSpace(slug) == "" {
		return storage.Product{}, errProductNotFound
	}
	product, err := s.store.GetProductBySlug(ctx, slug)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && (!product.IsActive || product.IsDraft)) {
		return storage.Product{}, errProductNotFound
	}
	if err != nil {
		return storage.Product{}, err
	}
	return product, nil
}

// ByID returns any product. Staff only.
func (s *Service) ByID(ctx context.Context, caller requestctx.User, productID string) (storage.Product, error) {
	if err := s.ready(); err != nil {
		return storage.Product{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return storage.Product{}, err
	}
	return s.getProduct(ctx, productID)
}

func (s *Service) getProduct(ctx context.Context, productID string) (storage.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return storage.Product{}, errProductNotFound
	}
	product, err := s.store.GetProduct(ctx, productID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Product{}, errProductNotFound
	}
	if err != nil {
		return storage.Product{}, err
	}
	return product, nil
}

// apply copies the non-nil fields of in onto p.
func apply(p *storage.Product, in ProductInput) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&p.Name, in.Name)
	if in.Slug != nil {
		p.Slug = strings.ToLower(strings.TrimSpace(*in.Slug))
	}
	setString(&p.Description, in.Description)
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.DiscountPrice != nil {
		value := *in.DiscountPrice
		p.DiscountPrice = &value
	}
	if in.ClearDiscount {
		p.DiscountPrice = nil
	}
	setBool(&p.IsDiscount, in.IsDiscount)
	setBool(&p.IsFeature, in.IsFeature)
	setBool(&p.IsActive, in.IsActive)
	setBool(&p.IsDraft, in.IsDraft)
	setString(&p.CategoryID, in.CategoryID)
	setString(&p.ImageURL, in.ImageURL)
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	setBool(&p.IsStock, in.IsStock)
	setString(&p.Variation1, in.Variation1)
	setString(&p.Variation2, in.Variation2)
}

func (s *Service) validateProduct(ctx context.Context, p storage.Product) error {
	invalid := func(message string) error {
		return apperrors.New(apperrors.CodeInvalidArgument, message)
	}
	switch {
	case p.Name == "":
		return invalid("name is required")
	case p.Slug == "":
		return invalid("slug is required")
	case !slugPattern.MatchString(p.Slug):
		return invalid("slug must contain lowercase letters, digits and dashes")
	case p.Price < 0:
		return invalid("price must not be negative")
	case p.DiscountPrice != nil && *p.DiscountPrice < 0:
		return invalid("discountPrice must not be negative")
	case p.Stock < 0:
		return invalid("stock must not be negative")
	}
	if p.CategoryID != "" {
		if _, err := s.store.GetCategory(ctx, p.CategoryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return invalid("categoryId does not match a category")
			}
			return fmt.Errorf("check category: %w", err)
		}
	}
	return nil
}

func slugTaken(slug string) error {
	return apperrors.WithMetadata(apperrors.CodeProductSlugTaken, "Product slug already exists", map[string]string{"slug": slug})
}

// Create adds a product. Staff only. Unset flags default to active and
// in stock; explicit false values are kept.
func (s *Service) Create(ctx context.Context, caller requestctx.User, in ProductInput) (storage.Product, error) {
	if err := s.ready(); err != nil {
		return storage.Product{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return storage.Product{}, err
	}
	if in.Price == nil {
		return storage.Product{}, apperrors.New(apperrors.CodeInvalidArgument, "price is required")
	}
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in ProductInput) (storage.Product, error) {
	productID, err := s.idGenerator()
	if err != nil {
		return storage.Product{}, fmt.Errorf("generate product id: %w", err)
	}
	now := s.clock().UTC()
	product := storage.Product{
		ID:        productID,
		IsActive:  true,
		IsStock:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&product, in)
	if err := s.validateProduct(ctx, product); err != nil {
		return storage.Product{}, err
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return storage.Product{}, slugTaken(product.Slug)
		}
		return storage.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.Invalidate(ctx)
	log.Ctx(ctx).Info().Str("product_id", product.ID).Str("slug", product.Slug).Msg("product created")
	return s.getProduct(ctx, product.ID)
}

// Update applies a partial update. Staff only.
func (s *Service) Update(ctx context.Context, caller requestctx.User, productID string, in ProductInput) (storage.Product, error) {
	if err := s.ready(); err != nil {
		return storage.Product{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return storage.Product{}, err
	}
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return storage.Product{}, err
	}
	return s.update(ctx, product, in)
}

func (s *Service) update(ctx context.Context, product storage.Product, in ProductInput) (storage.Product, error) {
	apply(&product, in)
	product.UpdatedAt = s.clock().UTC()
	if err := s.validateProduct(ctx, product); err != nil {
		return storage.Product{}, err
	}
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return storage.Product{}, slugTaken(product.Slug)
		case errors.Is(err, storage.ErrNotFound):
			return storage.Product{}, errProductNotFound
		}
		return storage.Product{}, fmt.Errorf("update product: %w", err)
	}
	s.Invalidate(ctx)
	return s.getProduct(ctx, product.ID)
}

// Delete removes a product. Staff only.
func (s *Service) Delete(ctx context.Context, caller requestctx.User, productID string) (Message, error) {
	if err := s.ready(); err != nil {
		return Message{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return Message{}, err
	}
	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Message{}, errProductNotFound
		}
		return Message{}, fmt.Errorf("delete product: %w", err)
	}
	s.Invalidate(ctx)
	return Message{Message: "Product deleted successfully"}, nil
}
