// Package modules lists the web feature modules by access group.
package modules

import (
	"github.com/louisbranch/storefront/internal/services/web/apiclient"
	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/modules/account"
	"github.com/louisbranch/storefront/internal/services/web/modules/admin"
	"github.com/louisbranch/storefront/internal/services/web/modules/cart"
	"github.com/louisbranch/storefront/internal/services/web/modules/checkout"
	"github.com/louisbranch/storefront/internal/services/web/modules/orders"
	"github.com/louisbranch/storefront/internal/services/web/modules/publicauth"
	"github.com/louisbranch/storefront/internal/services/web/modules/seo"
	"github.com/louisbranch/storefront/internal/services/web/modules/storefront"
)

// Module aliases the module contract for registry callers.
type Module = module.Module

// DefaultPublicModules returns modules open to every visitor. A nil client
// mounts them in their unavailable mode.
func DefaultPublicModules(client *apiclient.Client, deps module.Dependencies) []Module {
	if client == nil {
		return []Module{
			storefront.New(nil, deps),
			cart.New(nil, deps),
			checkout.New(nil, deps),
			publicauth.New(nil, deps),
			seo.New(nil, deps),
		}
	}
	return []Module{
		storefront.New(client, deps),
		cart.New(client, deps),
		checkout.New(client, deps),
		publicauth.New(client, deps),
		seo.New(client, deps),
	}
}

// DefaultProtectedModules returns modules for signed-in customers.
func DefaultProtectedModules(client *apiclient.Client, deps module.Dependencies) []Module {
	if client == nil {
		return []Module{account.New(nil, deps), orders.New(nil, deps)}
	}
	return []Module{account.New(client, deps), orders.New(client, deps)}
}

// DefaultStaffModules returns modules restricted to staff roles.
func DefaultStaffModules(client *apiclient.Client, deps module.Dependencies) []Module {
	if client == nil {
		return []Module{admin.New(nil, deps)}
	}
	return []Module{admin.New(client, deps)}
}
