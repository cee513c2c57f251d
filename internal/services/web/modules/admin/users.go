package admin

import (
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/profiles"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

func (h handlers) handleUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.gateway.Profiles(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.page(w, r, http.StatusOK, "admin.users.title", "admin/users", templates.AdminUsersView{Profiles: list})
}

func (h handlers) handleUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userID"))
	profile, err := h.service.gateway.Profile(h.RequestContext(r), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	viewer := h.ResolveRequestViewer(r)
	h.page(w, r, http.StatusOK, "admin.users.title", "admin/user", templates.AdminUserView{
		Profile: profile,
		Roles:   assignableRoles(access.Role(viewer.Role), profile.Role),
		IsSelf:  viewer.UserID == profile.ID,
	})
}

func (h handlers) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	userID := strings.TrimSpace(r.PathValue("userID"))
	location := routepath.AdminUser(userID)
	firstName := formValue(r.PostForm, "firstName")
	lastName := formValue(r.PostForm, "lastName")
	phone := formValue(r.PostForm, "phone")
	in := profiles.AdminUpdate{FirstName: &firstName, LastName: &lastName, Phone: &phone}
	if role := formValue(r.PostForm, "role"); role != "" {
		in.Role = &role
	}
	if _, err := h.service.gateway.UpdateProfile(h.RequestContext(r), userID, in); err != nil {
		if !formError(err) {
			h.WriteError(w, r, err)
			return
		}
		h.Notify(w, r, flashnotice.Error(errorKey(err)))
		h.Redirect(w, r, location)
		return
	}
	h.mutated(w, r, "admin.flash.saved", location)
}

func (h handlers) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userID"))
	if userID == h.ResolveRequestViewer(r).UserID {
		h.Notify(w, r, flashnotice.Error("error.api.self_deletion"))
		h.Redirect(w, r, routepath.AdminUser(userID))
		return
	}
	if err := h.service.gateway.DeleteProfile(h.RequestContext(r), userID); err != nil {
		if !formError(err) {
			h.WriteError(w, r, err)
			return
		}
		h.Notify(w, r, flashnotice.Error(errorKey(err)))
		h.Redirect(w, r, routepath.AdminUser(userID))
		return
	}
	h.mutated(w, r, "admin.flash.deleted", routepath.AdminUsers)
}
