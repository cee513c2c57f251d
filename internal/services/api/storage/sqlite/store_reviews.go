package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/storefront/internal/services/api/storage"
)

// ListReviews returns reviews of a product, newest first, with author names.
func (s *Store) ListReviews(ctx context.Context, productID string) ([]storage.Review, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at,
       COALESCE(pr.first_name, ''), COALESCE(pr.last_name, '')
FROM reviews r
LEFT JOIN profiles pr ON pr.id = r.user_id
WHERE r.product_id = ?
ORDER BY r.created_at DESC, r.id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]storage.Review, 0)
	for rows.Next() {
		var r storage.Review
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &createdAt, &r.FirstName, &r.LastName); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.CreatedAt = fromMillis(createdAt)
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview inserts a review and recomputes the product's rating and
// review_count in the same transaction.
func (s *Store) CreateReview(ctx context.Context, r storage.Review) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM products WHERE id = ?", r.ProductID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check product: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			r.ID, r.ProductID, r.UserID, r.Rating, r.Comment, toMillis(r.CreatedAt),
		); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("put review: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE products SET
    rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = ?1),
    review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = ?1)
WHERE id = ?1`, r.ProductID); err != nil {
			return fmt.Errorf("refresh product rating: %w", err)
		}
		return nil
	})
}
