package admin

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

func (h handlers) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.gateway.Settings(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.page(w, r, http.StatusOK, "admin.settings.title", "admin/settings", templates.AdminSettingsView{Settings: settings})
}

func (h handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	ctx := h.RequestContext(r)
	current, err := h.service.gateway.Settings(ctx)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	next, err := parseSettings(r.PostForm, current)
	if err == nil {
		_, err = h.service.gateway.UpdateSettings(ctx, next)
	}
	if err != nil {
		if !formError(err) {
			h.WriteError(w, r, err)
			return
		}
		h.page(w, r, http.StatusUnprocessableEntity, "admin.settings.title", "admin/settings", templates.AdminSettingsView{
			Settings: next,
			ErrorKey: errorKey(err),
		})
		return
	}
	h.settingsSaved(r.Context())
	h.mutated(w, r, "admin.flash.saved", routepath.AdminSettings)
}

func (h handlers) handleUpdateSlides(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	ctx := h.RequestContext(r)
	current, err := h.service.gateway.Settings(ctx)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	current.Slides = parseSlides(r.PostForm)
	if _, err := h.service.gateway.UpdateSettings(ctx, current); err != nil {
		if !formError(err) {
			h.WriteError(w, r, err)
			return
		}
		h.page(w, r, http.StatusUnprocessableEntity, "admin.settings.title", "admin/settings", templates.AdminSettingsView{
			Settings: current,
			ErrorKey: errorKey(err),
		})
		return
	}
	h.settingsSaved(r.Context())
	h.mutated(w, r, "admin.flash.saved", routepath.AdminSettings)
}
