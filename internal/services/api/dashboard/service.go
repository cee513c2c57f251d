// Package dashboard assembles the admin overview.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"golang.org/x/sync/errgroup"
)

// RecentOrderCount is how many orders the overview lists.
const RecentOrderCount = 5

// ErrServiceNotConfigured indicates missing dashboard dependencies.
var ErrServiceNotConfigured = errors.New("dashboard service not configured")

// RecentOrders lists the newest orders on behalf of a staff caller.
type RecentOrders interface {
	Recent(ctx context.Context, caller requestctx.User, limit int) ([]storage.Order, error)
}

// Overview is the admin dashboard payload.
type Overview struct {
	storage.Stats
	RecentOrders []storage.Order `json:"recentOrders"`
}

// Service computes dashboard overviews.
type Service struct {
	stats  storage.StatsStore
	orders RecentOrders
}

// NewService builds a dashboard service.
func NewService(stats storage.StatsStore, orders RecentOrders) *Service {
	return &Service{stats: stats, orders: orders}
}

// Stats returns store totals and the newest orders. Staff only.
func (s *Service) Stats(ctx context.Context, caller requestctx.User) (Overview, error) {
	if s == nil || s.stats == nil || s.orders == nil {
		return Overview{}, ErrServiceNotConfigured
	}
	if err := access.RequireStaff(caller); err != nil {
		return Overview{}, err
	}

	var overview Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.stats.GetStats(gctx)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}
		overview.Stats = stats
		return nil
	})
	g.Go(func() error {
		recent, err := s.orders.Recent(gctx, caller, RecentOrderCount)
		if err != nil {
			return fmt.Errorf("recent orders: %w", err)
		}
		overview.RecentOrders = recent
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	if overview.RecentOrders == nil {
		overview.RecentOrders = []storage.Order{}
	}
	return overview, nil
}
