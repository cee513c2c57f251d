// Package catalog serves products, categories and the sitemap feed.
//
// Public reads only see active, non-draft products. Hot read paths are
// memoised in a cache namespace that every catalog write invalidates.
package catalog

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/louisbranch/storefront/internal/platform/cache"
	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultHomeLimit sizes the featured and recent rails.
	DefaultHomeLimit = 8
	// CacheNamespace names the catalog cache namespace.
	CacheNamespace = "catalog"
)

// ErrServiceNotConfigured indicates the catalog service is nil.
var ErrServiceNotConfigured = errors.New("catalog service is not configured")

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Store is the persistence the catalog needs.
type Store interface {
	storage.ProductStore
	storage.CategoryStore
	storage.SitemapStore
}

// Config wires optional collaborators.
type Config struct {
	Cache       *cache.Namespace
	Clock       func() time.Time
	IDGenerator func() (string, error)
}

// Service implements catalog reads and staff writes.
type Service struct {
	store       Store
	cache       *cache.Namespace
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService builds a catalog service. A nil cache disables memoisation.
func NewService(store Store, cfg Config) *Service {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewID
	}
	return &Service{
		store:       store,
		cache:       cfg.Cache,
		clock:       cfg.Clock,
		idGenerator: cfg.IDGenerator,
	}
}

func (s *Service) ready() error {
	if s == nil || s.store == nil {
		return ErrServiceNotConfigured
	}
	return nil
}

// Invalidate drops cached catalog reads. Cache failures are logged, not
// returned: the write that triggered them already succeeded.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("namespace", s.cache.Name()).Msg("cache invalidate failed")
	}
}

func homeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return DefaultHomeLimit
	}
	return limit
}

func limitKey(prefix string, limit int) string {
	return prefix + ":" + strconv.Itoa(limit)
}
