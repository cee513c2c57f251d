package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/storefront/internal/platform/cache"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/cartcookie"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/louisbranch/storefront/internal/services/web/platform/sessioncookie"
	"github.com/rs/zerolog/log"
)

const (
	defaultShopName    = "Storefront"
	defaultCurrency    = "TND"
	shopCacheNamespace = "web_shop"
)

// profileSource and settingsSource are the API calls behind page chrome.
type profileSource interface {
	Me(ctx context.Context) (storage.Profile, error)
}

type settingsSource interface {
	Settings(ctx context.Context) (storage.StoreSettings, error)
}

// requestPrincipalState memoizes chrome lookups for one request.
type requestPrincipalState struct {
	viewerOnce sync.Once
	viewer     module.Viewer
	shopOnce   sync.Once
	settings   storage.StoreSettings
}

type requestPrincipalStateKey struct{}

type principalResolver struct {
	profiles profileSource
	settings settingsSource
	shop     *cache.Namespace
}

func newPrincipalResolver(client *apiclient.Client, shopCache cache.Cache, ttl time.Duration, observer cache.Observer) principalResolver {
	r := principalResolver{shop: cache.NewNamespace(shopCache, shopCacheNamespace, ttl, observer)}
	if client != nil {
		r.profiles = client
		r.settings = client
	}
	return r
}

func withRequestPrincipalState(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), requestPrincipalStateKey{}, &requestPrincipalState{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestPrincipalStateFromRequest(r *http.Request) *requestPrincipalState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(requestPrincipalStateKey{}).(*requestPrincipalState)
	return state
}

func (p principalResolver) resolveViewerUncached(r *http.Request) module.Viewer {
	if p.profiles == nil || r == nil {
		return module.Viewer{}
	}
	token, ok := sessioncookie.Read(r)
	if !ok {
		return module.Viewer{}
	}
	profile, err := p.profiles.Me(apiclient.WithToken(r.Context(), token))
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindUnauthorized {
			log.Ctx(r.Context()).Warn().Err(err).Msg("resolve viewer")
		}
		return module.Viewer{}
	}
	name := strings.TrimSpace(profile.FirstName)
	if name == "" {
		name = profile.Email
	}
	return module.Viewer{
		SignedIn:    true,
		UserID:      profile.ID,
		Email:       profile.Email,
		DisplayName: name,
		Role:        string(profile.Role),
	}
}

// resolveViewer looks the session token up once per request.
func (p principalResolver) resolveViewer(r *http.Request) module.Viewer {
	if state := requestPrincipalStateFromRequest(r); state != nil {
		state.viewerOnce.Do(func() {
			state.viewer = p.resolveViewerUncached(r)
		})
		return state.viewer
	}
	return p.resolveViewerUncached(r)
}

func (p principalResolver) loadSettings(r *http.Request) storage.StoreSettings {
	if p.settings == nil {
		return storage.StoreSettings{}
	}
	settings, err := cache.Remember(r.Context(), p.shop, "settings", p.settings.Settings)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("resolve store settings")
		return storage.StoreSettings{}
	}
	return settings
}

// invalidateShop drops cached store settings so the next page shows edits.
func (p principalResolver) invalidateShop(ctx context.Context) {
	if err := p.shop.Invalidate(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("namespace", shopCacheNamespace).Msg("invalidate store settings")
	}
}

// resolveShop combines cached store settings with the visitor's cart.
func (p principalResolver) resolveShop(r *http.Request) module.Shop {
	var settings storage.StoreSettings
	if state := requestPrincipalStateFromRequest(r); state != nil {
		state.shopOnce.Do(func() {
			state.settings = p.loadSettings(r)
		})
		settings = state.settings
	} else if r != nil {
		settings = p.loadSettings(r)
	}
	shop := module.Shop{
		Name:        strings.TrimSpace(settings.SiteName),
		Description: strings.TrimSpace(settings.SiteDescription),
		Currency:    strings.TrimSpace(settings.Currency),
	}
	if shop.Name == "" {
		shop.Name = defaultShopName
	}
	if shop.Currency == "" {
		shop.Currency = defaultCurrency
	}
	if r != nil {
		shop.CartCount = cartcookie.Read(r).Count()
	}
	return shop
}
