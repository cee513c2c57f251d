package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/louisbranch/storefront/internal/services/api/storage"
)

const settingsKey = "store"

// GetSettings loads the store settings document.
func (s *Store) GetSettings(ctx context.Context) (storage.StoreSettings, error) {
	if err := s.ready(ctx); err != nil {
		return storage.StoreSettings{}, err
	}
	var raw string
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, "SELECT value_json, updated_at FROM settings WHERE key = ?", settingsKey).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.StoreSettings{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.StoreSettings{}, fmt.Errorf("get settings: %w", err)
	}
	var settings storage.StoreSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return storage.StoreSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	settings.UpdatedAt = fromMillis(updatedAt)
	return settings, nil
}

// PutSettings upserts the store settings document.
func (s *Store) PutSettings(ctx context.Context, settings storage.StoreSettings) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO settings (key, value_json, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at`,
		settingsKey, string(raw), toMillis(settings.UpdatedAt),
	); err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}

// GetStats computes the admin dashboard aggregates. Revenue excludes
// canceled and refunded orders.
func (s *Store) GetStats(ctx context.Context) (storage.Stats, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Stats{}, err
	}
	var stats storage.Stats
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT
    (SELECT COUNT(*) FROM products),
    (SELECT COUNT(*) FROM orders),
    (SELECT COUNT(*) FROM profiles),
    (SELECT COALESCE(SUM(total), 0) FROM orders WHERE status NOT IN (?, ?))`,
		string(storage.OrderCanceled), string(storage.OrderRefunded),
	).Scan(&stats.TotalProducts, &stats.TotalOrders, &stats.TotalUsers, &stats.TotalRevenue)
	if err != nil {
		return storage.Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}
