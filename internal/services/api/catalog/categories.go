package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/storefront/internal/platform/cache"
	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

var errCategoryNotFound = apperrors.New(apperrors.CodeNotFound, "Category not found")

// CategoryInput carries category fields; nil fields keep their value.
type CategoryInput struct {
	Name     *string `json:"name,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Categories returns active categories ordered by name.
func (s *Service) Categories(ctx context.Context) ([]storage.Category, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return cache.Remember(ctx, s.cache, "categories", func(ctx context.Context) ([]storage.Category, error) {
		return s.store.ListCategories(ctx, true)
	})
}

// AllCategories returns every category, active or not. Staff only.
func (s *Service) AllCategories(ctx context.Context, caller requestctx.User) ([]storage.Category, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, false)
}

// CategoryBySlug returns an active category.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (storage.Category, error) {
	if err := s.ready(); err != nil {
		return storage.Category{}, err
	}
	if strings.TrimSpace(slug) == "" {
		return storage.Category{}, errCategoryNotFound
	}
	category, err := s.store.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !category.IsActive) {
		return storage.Category{}, errCategoryNotFound
	}
	if err != nil {
		return storage.Category{}, err
	}
	return category, nil
}

func applyCategory(c *storage.Category, in CategoryInput) error {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		c.Slug = strings.ToLower(strings.TrimSpace(*in.Slug))
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	switch {
	case c.Name == "":
		return apperrors.New(apperrors.CodeInvalidArgument, "name is required")
	case !slugPattern.MatchString(c.Slug):
		return apperrors.New(apperrors.CodeInvalidArgument, "slug must contain lowercase letters, digits and dashes")
	}
	return nil
}

// CreateCategory adds a category. Staff only.
func (s *Service) CreateCategory(ctx context.Context, caller requestctx.User, in CategoryInput) (storage.Category, error) {
	if err := s.ready(); err != nil {
		return storage.Category{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return storage.Category{}, err
	}
	categoryID, err := s.idGenerator()
	if err != nil {
		return storage.Category{}, fmt.Errorf("generate category id: %w", err)
	}
	now := s.clock().UTC()
	category := storage.Category{ID: categoryID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := applyCategory(&category, in); err != nil {
		return storage.Category{}, err
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return storage.Category{}, apperrors.New(apperrors.CodeAlreadyExists, "Category slug already exists")
		}
		return storage.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.Invalidate(ctx)
	return category, nil
}

// UpdateCategory edits a category. Staff only.
func (s *Service) UpdateCategory(ctx context.Context, caller requestctx.User, categoryID string, in CategoryInput) (storage.Category, error) {
	if err := s.ready(); err != nil {
		return storage.Category{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return storage.Category{}, err
	}
	category, err := s.store.GetCategory(ctx, categoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Category{}, errCategoryNotFound
	}
	if err != nil {
		return storage.Category{}, err
	}
	if err := applyCategory(&category, in); err != nil {
		return storage.Category{}, err
	}
	category.UpdatedAt = s.clock().UTC()
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return storage.Category{}, apperrors.New(apperrors.CodeAlreadyExists, "Category slug already exists")
		}
		return storage.Category{}, fmt.Errorf("update category: %w", err)
	}
	s.Invalidate(ctx)
	return category, nil
}

// SitemapEntries lists public product and category slugs.
func (s *Service) SitemapEntries(ctx context.Context) ([]storage.SitemapEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return cache.Remember(ctx, s.cache, "sitemap", s.store.ListSitemapEntries)
}
