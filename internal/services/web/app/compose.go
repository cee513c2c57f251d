// Package app composes web modules into the root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/web/module"
	"github.com/louisbranch/storefront/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	// Viewer resolves the signed-in state used by the auth guards.
	Viewer           module.ResolveViewer
	PublicModules    []module.Module
	ProtectedModules []module.Module
	// StaffModules mount under /admin/ and require a staff role.
	StaffModules []module.Module
	SchemePolicy requestmeta.SchemePolicy
	// Forbidden answers signed-in visitors without a staff role. Nil
	// writes a bare 403.
	Forbidden http.Handler
}

// Composer wires root mux mounts and route-group auth behavior.
type Composer struct{}

type group struct {
	name    string
	modules []module.Module
	check   func(prefix string) error
	wrap    func(http.Handler) http.Handler
}

// Compose builds a root HTTP handler from module groups.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	if input.Viewer == nil {
		input.Viewer = func(*http.Request) module.Viewer { return module.Viewer{} }
	}
	sameOrigin := requireCookieSessionSameOrigin(input.SchemePolicy)
	signedIn := requireSignedIn(input.Viewer)
	staff := requireStaff(input.Viewer, input.Forbidden)

	groups := []group{
		{name: "public", modules: input.PublicModules, check: rejectStaffPrefix, wrap: sameOrigin},
		{name: "protected", modules: input.ProtectedModules, check: rejectStaffPrefix, wrap: func(next http.Handler) http.Handler {
			return signedIn(sameOrigin(next))
		}},
		{name: "staff", modules: input.StaffModules, check: requireStaffPrefix, wrap: func(next http.Handler) http.Handler {
			return staff(sameOrigin(next))
		}},
	}

	seen := make(map[string]string)
	for _, g := range groups {
		for _, feature := range g.modules {
			if feature == nil {
				return nil, fmt.Errorf("%s module is nil", g.name)
			}
			if err := mountModule(root, feature, g, seen); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, g group, seen map[string]string) error {
	mount, err := feature.Mount()
	if err != nil {
		return fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	patterns, err := mountPatterns(feature.ID(), mount)
	if err != nil {
		return err
	}
	for _, pattern := range patterns {
		if err := g.check(pattern); err != nil {
			return fmt.Errorf("module %q in %s group: %w", feature.ID(), g.name, err)
		}
		if previous, ok := seen[pattern]; ok {
			return fmt.Errorf("module %q duplicates route %q owned by module %q", feature.ID(), pattern, previous)
		}
		seen[pattern] = feature.ID()
	}

	handler := g.wrap(mount.Handler)
	for _, pattern := range patterns {
		root.Handle(pattern, handler)
	}
	return nil
}

// mountPatterns validates a mount and lists the root patterns it claims.
// Prefixes are canonical subtrees; Paths are exact.
func mountPatterns(id string, mount module.Mount) ([]string, error) {
	var patterns []string
	prefix := strings.TrimSpace(mount.Prefix)
	if prefix != "" {
		if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
			return nil, fmt.Errorf("mount module %q: prefix %q must start and end with /", id, prefix)
		}
		patterns = append(patterns, prefix)
	}
	for _, path := range mount.Paths {
		path = strings.TrimSpace(path)
		if !strings.HasPrefix(path, "/") || (strings.HasSuffix(path, "/") && path != "/") {
			return nil, fmt.Errorf("mount module %q: path %q must be an absolute exact path", id, path)
		}
		// "/" as an exact path is spelled "/{$}" on ServeMux.
		if path == "/" {
			path = "/{$}"
		}
		patterns = append(patterns, path)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("mount module %q: prefix or paths are required", id)
	}
	return patterns, nil
}

func isStaffPattern(pattern string) bool {
	return pattern == routepath.Admin || strings.HasPrefix(pattern, routepath.AdminPrefix)
}

func rejectStaffPrefix(pattern string) error {
	if isStaffPattern(pattern) {
		return fmt.Errorf("route %q is reserved for staff modules", pattern)
	}
	return nil
}

func requireStaffPrefix(pattern string) error {
	if !isStaffPattern(pattern) {
		return fmt.Errorf("route %q must be under %s", pattern, routepath.AdminPrefix)
	}
	return nil
}

// loginRedirect sends the visitor to sign in, returning to the page they
// asked for when it was a plain navigation.
func loginRedirect(w http.ResponseWriter, r *http.Request) {
	next := ""
	if r.Method == http.MethodGet {
		next = r.URL.RequestURI()
	}
	http.Redirect(w, r, routepath.LoginWithNext(next), http.StatusFound)
}

func requireSignedIn(viewer module.ResolveViewer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			return http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !viewer(r).SignedIn {
				loginRedirect(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireStaff(viewer module.ResolveViewer, forbidden http.Handler) func(http.Handler) http.Handler {
	if forbidden == nil {
		forbidden = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			return http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := viewer(r)
			switch {
			case !v.SignedIn:
				loginRedirect(w, r)
			case !v.IsStaff():
				forbidden.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !policy.HasSameOriginProof(r) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
