package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/storefront/internal/services/api/storage"
)

const productColumns = `
p.id, p.name, p.slug, p.description, p.price, p.discount_price,
p.is_discount, p.is_feature, p.is_active, p.is_draft, p.category_id,
p.image_url, p.stock, p.is_stock, p.variation1, p.variation2,
p.rating, p.review_count, p.created_at, p.updated_at,
c.name, c.slug`

const productFrom = `
FROM products p
LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (storage.Product, error) {
	var (
		p                     storage.Product
		discount              sql.NullFloat64
		categoryID            sql.NullString
		categoryName          sql.NullString
		categorySlug          sql.NullString
		isDiscount, isFeature int
		isActive, isDraft     int
		isStock               int
		createdAt, updatedAt  int64
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &discount,
		&isDiscount, &isFeature, &isActive, &isDraft, &categoryID,
		&p.ImageURL, &p.Stock, &isStock, &p.Variation1, &p.Variation2,
		&p.Rating, &p.ReviewCount, &createdAt, &updatedAt,
		&categoryName, &categorySlug,
	); err != nil {
		return storage.Product{}, err
	}
	if discount.Valid {
		value := discount.Float64
		p.DiscountPrice = &value
	}
	p.IsDiscount = isDiscount == 1
	p.IsFeature = isFeature == 1
	p.IsActive = isActive == 1
	p.IsDraft = isDraft == 1
	p.IsStock = isStock == 1
	p.CategoryID = categoryID.String
	if categoryName.Valid {
		p.Category = &storage.CategoryRef{Name: categoryName.String, Slug: categorySlug.String}
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

func productWhere(query storage.ProductQuery) (string, []any) {
	var clauses []string
	var params []any

	switch query.Visibility {
	case storage.VisiblePublished:
		clauses = append(clauses, "p.is_active = 1 AND p.is_draft = 0")
	case storage.VisibleDrafts:
		clauses = append(clauses, "p.is_draft = 1")
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := likePattern(search)
		clauses = append(clauses, `(`+foldFunc+`(p.name) LIKE ? ESCAPE '\' OR `+foldFunc+`(p.description) LIKE ? ESCAPE '\')`)
		params = append(params, pattern, pattern)
	}
	if query.CategoryID != "" {
		clauses = append(clauses, "p.category_id = ?")
		params = append(params, query.CategoryID)
	}
	if query.MinPrice != nil {
		clauses = append(clauses, "p.price >= ?")
		params = append(params, *query.MinPrice)
	}
	if query.MaxPrice != nil {
		clauses = append(clauses, "p.price <= ?")
		params = append(params, *query.MaxPrice)
	}
	if query.InStock {
		clauses = append(clauses, "p.is_stock = 1 AND p.stock > 0")
	}
	if query.OnSale {
		clauses = append(clauses, "p.is_discount = 1")
	}
	if query.FeaturedOnly {
		clauses = append(clauses, "p.is_feature = 1")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), params
}

func productOrder(sort storage.ProductSort) string {
	switch sort {
	case storage.SortPriceAsc:
		return " ORDER BY p.price ASC, p.id ASC"
	case storage.SortPriceDesc:
		return " ORDER BY p.price DESC, p.id DESC"
	case storage.SortRating:
		return " ORDER BY p.rating DESC, p.review_count DESC, p.id DESC"
	default:
		return " ORDER BY p.created_at DESC, p.id DESC"
	}
}

// ListProducts returns one page of products matching query.
func (s *Store) ListProducts(ctx context.Context, query storage.ProductQuery) ([]storage.Product, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	where, params := productWhere(query)
	sqlText := "SELECT " + productColumns + productFrom + where + productOrder(query.Sort)
	if query.Limit > 0 {
		sqlText += " LIMIT ? OFFSET ?"
		params = append(params, query.Limit, max(query.Offset, 0))
	}

	rows, err := s.sqlDB.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]storage.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// CountProducts counts products matching query, ignoring paging.
func (s *Store) CountProducts(ctx context.Context, query storage.ProductQuery) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	where, params := productWhere(query)
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p"+where, params...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// GetProduct fetches a product by id regardless of visibility.
func (s *Store) GetProduct(ctx context.Context, id string) (storage.Product, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Product{}, err
	}
	if strings.TrimSpace(id) == "" {
		return storage.Product{}, fmt.Errorf("product id is required")
	}
	return s.getProduct(ctx, s.sqlDB, "p.id = ?", id)
}

// GetProductBySlug fetches a product by slug regardless of visibility.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (storage.Product, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Product{}, err
	}
	if strings.TrimSpace(slug) == "" {
		return storage.Product{}, fmt.Errorf("product slug is required")
	}
	return s.getProduct(ctx, s.sqlDB, "p.slug = ?", slug)
}

func (s *Store) getProduct(ctx context.Context, q queryer, where string, arg any) (storage.Product, error) {
	row := q.QueryRowContext(ctx, "SELECT "+productColumns+productFrom+" WHERE "+where, arg)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Product{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// CreateProduct inserts a new product.
func (s *Store) CreateProduct(ctx context.Context, p storage.Product) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO products (
    id, name, slug, description, price, discount_price,
    is_discount, is_feature, is_active, is_draft, category_id,
    image_url, stock, is_stock, variation1, variation2,
    rating, review_count, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, nullFloat(p.DiscountPrice),
		boolToInt(p.IsDiscount), boolToInt(p.IsFeature), boolToInt(p.IsActive), boolToInt(p.IsDraft), nullString(p.CategoryID),
		p.ImageURL, p.Stock, boolToInt(p.IsStock), p.Variation1, p.Variation2,
		p.Rating, p.ReviewCount, toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct overwrites the editable fields of an existing product.
// Rating aggregates are owned by CreateReview and left untouched.
func (s *Store) UpdateProduct(ctx context.Context, p storage.Product) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE products SET
    name = ?, slug = ?, description = ?, price = ?, discount_price = ?,
    is_discount = ?, is_feature = ?, is_active = ?, is_draft = ?, category_id = ?,
    image_url = ?, stock = ?, is_stock = ?, variation1 = ?, variation2 = ?,
    updated_at = ?
WHERE id = ?`,
		p.Name, p.Slug, p.Description, p.Price, nullFloat(p.DiscountPrice),
		boolToInt(p.IsDiscount), boolToInt(p.IsFeature), boolToInt(p.IsActive), boolToInt(p.IsDraft), nullString(p.CategoryID),
		p.ImageURL, p.Stock, boolToInt(p.IsStock), p.Variation1, p.Variation2,
		toMillis(p.UpdatedAt), p.ID,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(result, "update product")
}

// DeleteProduct removes a product and, by cascade, its reviews.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(result, "delete product")
}

const categoryColumns = "id, name, slug, is_active, created_at, updated_at"

func scanCategory(row rowScanner) (storage.Category, error) {
	var (
		c                    storage.Category
		isActive             int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &isActive, &createdAt, &updatedAt); err != nil {
		return storage.Category{}, err
	}
	c.IsActive = isActive == 1
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

// ListCategories returns categories ordered by name.
func (s *Store) ListCategories(ctx context.Context, activeOnly bool) ([]storage.Category, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	sqlText := "SELECT " + categoryColumns + " FROM categories"
	if activeOnly {
		sqlText += " WHERE is_active = 1"
	}
	sqlText += " ORDER BY name COLLATE NOCASE ASC"

	rows, err := s.sqlDB.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]storage.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory fetches a category by id.
func (s *Store) GetCategory(ctx context.Context, id string) (storage.Category, error) {
	return s.getCategory(ctx, "id", id)
}

// GetCategoryBySlug fetches a category by slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (storage.Category, error) {
	return s.getCategory(ctx, "slug", slug)
}

func (s *Store) getCategory(ctx context.Context, column, value string) (storage.Category, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Category{}, err
	}
	if strings.TrimSpace(value) == "" {
		return storage.Category{}, fmt.Errorf("category %s is required", column)
	}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE "+column+" = ?", value)
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Category{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Category{}, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// CreateCategory inserts a category.
func (s *Store) CreateCategory(ctx context.Context, c storage.Category) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO categories ("+categoryColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Slug, boolToInt(c.IsActive), toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory overwrites a category's name, slug and active flag.
func (s *Store) UpdateCategory(ctx context.Context, c storage.Category) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		"UPDATE categories SET name = ?, slug = ?, is_active = ?, updated_at = ? WHERE id = ?",
		c.Name, c.Slug, boolToInt(c.IsActive), toMillis(c.UpdatedAt), c.ID,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(result, "update category")
}

// ListSitemapEntries returns published product and active category slugs.
func (s *Store) ListSitemapEntries(ctx context.Context) ([]storage.SitemapEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT 'product', slug, updated_at FROM products WHERE is_active = 1 AND is_draft = 0
UNION ALL
SELECT 'category', slug, updated_at FROM categories WHERE is_active = 1
ORDER BY 1 DESC, 2 ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sitemap entries: %w", err)
	}
	defer rows.Close()

	entries := make([]storage.SitemapEntry, 0)
	for rows.Next() {
		var entry storage.SitemapEntry
		var updatedAt int64
		if err := rows.Scan(&entry.Kind, &entry.Slug, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan sitemap entry: %w", err)
		}
		entry.UpdatedAt = fromMillis(updatedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sitemap entries: %w", err)
	}
	return entries, nil
}
