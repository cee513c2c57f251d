package account

import (
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/api/profiles"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	gateway ProfileGateway
}

func newHandlers(gateway ProfileGateway, base modulehandler.Base) handlers {
	return handlers{Base: base, gateway: gateway}
}

func (h handlers) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.gateway.Me(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.ProfileView{Profile: profile})
}

func (h handlers) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return
	}
	firstName := strings.TrimSpace(r.PostForm.Get("firstName"))
	lastName := strings.TrimSpace(r.PostForm.Get("lastName"))
	phone := strings.TrimSpace(r.PostForm.Get("phone"))

	ctx := h.RequestContext(r)
	if firstName == "" || lastName == "" {
		profile, err := h.gateway.Me(ctx)
		if err != nil {
			h.WriteError(w, r, err)
			return
		}
		profile.FirstName, profile.LastName, profile.Phone = firstName, lastName, phone
		h.render(w, r, http.StatusUnprocessableEntity, templates.ProfileView{Profile: profile, ErrorKey: "account.register.missing_fields"})
		return
	}
	if _, err := h.gateway.UpdateMe(ctx, profiles.SelfUpdate{FirstName: &firstName, LastName: &lastName, Phone: &phone}); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.Notify(w, r, flashnotice.Success("core.flash.profile_saved"))
	h.Redirect(w, r, routepath.Account)
}

func (h handlers) render(w http.ResponseWriter, r *http.Request, status int, view templates.ProfileView) {
	h.WritePage(w, r, pagerender.Page{
		Title:      h.Localizer(w, r).Sprintf("account.profile.title"),
		StatusCode: status,
		Body:       templates.Page("account/profile", view),
	})
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
