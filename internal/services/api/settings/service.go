// Package settings owns the single store configuration document.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

// ErrServiceNotConfigured indicates the settings service is nil.
var ErrServiceNotConfigured = errors.New("settings service is not configured")

// Defaults returns the settings used before an administrator saves any.
func Defaults() storage.StoreSettings {
	return storage.StoreSettings{
		SiteName:              "Storefront",
		SiteDescription:       "Clothing and accessories",
		Currency:              "TND",
		FreeShippingThreshold: pricing.DefaultPolicy.FreeThreshold,
		StandardShippingFee:   pricing.DefaultPolicy.Fee,
		Slides:                []storage.Slide{},
	}
}

// Service reads and updates the store settings.
type Service struct {
	store       storage.SettingsStore
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService builds a settings service.
func NewService(store storage.SettingsStore, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, clock: clock, idGenerator: id.NewID}
}

// Get returns the stored settings, or Defaults when none were saved.
func (s *Service) Get(ctx context.Context) (storage.StoreSettings, error) {
	if s == nil || s.store == nil {
		return storage.StoreSettings{}, ErrServiceNotConfigured
	}
	settings, err := s.store.GetSettings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return storage.StoreSettings{}, fmt.Errorf("get settings: %w", err)
	}
	if settings.Slides == nil {
		settings.Slides = []storage.Slide{}
	}
	return settings, nil
}

// ShippingPolicy returns the policy order placement validates against.
func (s *Service) ShippingPolicy(ctx context.Context) (pricing.Policy, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return pricing.Policy{}, err
	}
	return settings.ShippingPolicy(), nil
}

// Update validates and replaces the settings. Staff only.
func (s *Service) Update(ctx context.Context, caller requestctx.User, in storage.StoreSettings) (storage.StoreSettings, error) {
	if s == nil || s.store == nil {
		return storage.StoreSettings{}, ErrServiceNotConfigured
	}
	if err := access.RequireStaff(caller); err != nil {
		return storage.StoreSettings{}, err
	}

	in.SiteName = strings.TrimSpace(in.SiteName)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	switch {
	case in.SiteName == "":
		return storage.StoreSettings{}, apperrors.New(apperrors.CodeInvalidArgument, "site_name is required")
	case in.FreeShippingThreshold < 0:
		return storage.StoreSettings{}, apperrors.New(apperrors.CodeInvalidArgument, "free_shipping_threshold must not be negative")
	case in.StandardShippingFee < 0:
		return storage.StoreSettings{}, apperrors.New(apperrors.CodeInvalidArgument, "standard_shipping_fee must not be negative")
	case in.TaxRate < 0 || in.TaxRate > 1:
		return storage.StoreSettings{}, apperrors.New(apperrors.CodeInvalidArgument, "tax_rate must be between 0 and 1")
	}
	if in.Currency == "" {
		in.Currency = Defaults().Currency
	}
	if in.Slides == nil {
		in.Slides = []storage.Slide{}
	}
	for i := range in.Slides {
		if strings.TrimSpace(in.Slides[i].ID) != "" {
			continue
		}
		slideID, err := s.idGenerator()
		if err != nil {
			return storage.StoreSettings{}, fmt.Errorf("generate slide id: %w", err)
		}
		in.Slides[i].ID = slideID
	}
	in.UpdatedAt = s.clock().UTC()

	if err := s.store.PutSettings(ctx, in); err != nil {
		return storage.StoreSettings{}, fmt.Errorf("put settings: %w", err)
	}
	return in, nil
}
