package admin

import (
	"context"
	"net/http"

	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service     service
	shopChanged func(context.Context)
}

func newHandlers(s service, base modulehandler.Base, shopChanged func(context.Context)) handlers {
	return handlers{Base: base, service: s, shopChanged: shopChanged}
}

// settingsSaved refreshes cached store chrome once the API accepted new
// settings.
func (h handlers) settingsSaved(ctx context.Context) {
	if h.shopChanged != nil {
		h.shopChanged(ctx)
	}
}

func (h handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.gateway.Stats(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.page(w, r, http.StatusOK, "admin.dashboard.title", "admin/dashboard", templates.AdminDashboardView{Overview: overview})
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

func (h handlers) page(w http.ResponseWriter, r *http.Request, status int, titleKey, name string, view any) {
	h.WritePage(w, r, pagerender.Page{
		Title:      h.Localizer(w, r).Sprintf(titleKey),
		StatusCode: status,
		Body:       templates.Page(name, view),
	})
}

// mutated flashes key and redirects after a successful write.
func (h handlers) mutated(w http.ResponseWriter, r *http.Request, key, location string) {
	h.Notify(w, r, flashnotice.Success(key))
	h.Redirect(w, r, location)
}

// parseForm reads the posted form, answering the request when it cannot.
func (h handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return false
	}
	return true
}

// formError reports whether err belongs on the form being edited.
func formError(err error) bool {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput, apperrors.KindConflict, apperrors.KindForbidden:
		return true
	default:
		return false
	}
}

// errorDetail is the API's own explanation of a rejected form, shown to
// staff next to the localized summary.
func errorDetail(err error) string {
	if apperrors.CodeOf(err) == "" {
		return ""
	}
	return err.Error()
}

func errorKey(err error) string {
	if key := apperrors.LocalizationKey(err); key != "" {
		return key
	}
	return "error.api.invalid"
}
