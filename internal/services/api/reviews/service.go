// Package reviews lists and records product reviews.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

// MaxCommentLength bounds a review comment.
const MaxCommentLength = 2000

// ErrServiceNotConfigured indicates the reviews service is nil.
var ErrServiceNotConfigured = errors.New("reviews service is not configured")

// Invalidator drops cached catalog reads after a rating changes.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Service lists and records reviews.
type Service struct {
	store       storage.ReviewStore
	invalidator Invalidator
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService builds a reviews service. invalidator may be nil.
func NewService(store storage.ReviewStore, invalidator Invalidator, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, invalidator: invalidator, clock: clock, idGenerator: id.NewID}
}

// CreateInput is the review payload.
type CreateInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ListForProduct returns a product's reviews, newest first.
func (s *Service) ListForProduct(ctx context.Context, productID string) ([]storage.Review, error) {
	if s == nil || s.store == nil {
		return nil, ErrServiceNotConfigured
	}
	return s.store.ListReviews(ctx, productID)
}

// Create records a review by the caller and refreshes the product rating.
func (s *Service) Create(ctx context.Context, caller requestctx.User, productID string, in CreateInput) (storage.Review, error) {
	if s == nil || s.store == nil {
		return storage.Review{}, ErrServiceNotConfigured
	}
	if err := access.RequireUser(caller, caller.ID != ""); err != nil {
		return storage.Review{}, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return storage.Review{}, apperrors.New(apperrors.CodeInvalidArgument, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return storage.Review{}, apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("comment must be at most %d characters", MaxCommentLength))
	}

	reviewID, err := s.idGenerator()
	if err != nil {
		return storage.Review{}, fmt.Errorf("generate review id: %w", err)
	}
	review := storage.Review{
		ID:        reviewID,
		ProductID: productID,
		UserID:    caller.ID,
		Rating:    in.Rating,
		Comment:   comment,
		FirstName: caller.FirstName,
		LastName:  caller.LastName,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Review{}, apperrors.New(apperrors.CodeNotFound, "Product not found")
		}
		return storage.Review{}, fmt.Errorf("create review: %w", err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return review, nil
}
