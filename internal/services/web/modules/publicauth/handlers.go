package publicauth

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/api/auth"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/storefront/internal/services/web/platform/flash"
	"github.com/louisbranch/storefront/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/web/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	next := routepath.SafeNext(r.URL.Query().Get(routepath.NextQueryKey))
	if h.ResolveRequestViewer(r).SignedIn {
		h.Redirect(w, r, landing(next))
		return
	}
	h.renderLogin(w, r, http.StatusOK, templates.AuthView{Next: next})
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return
	}
	view := templates.AuthView{
		Email: r.PostForm.Get("email"),
		Next:  routepath.SafeNext(r.PostForm.Get(routepath.NextQueryKey)),
	}
	session, err := h.service.login(h.RequestContext(r), view.Email, r.PostForm.Get("password"))
	if err != nil {
		if !formError(err) {
			h.WriteError(w, r, err)
			return
		}
		view.ErrorKey = apperrors.LocalizationKey(err)
		h.renderLogin(w, r, apperrors.HTTPStatus(err), view)
		return
	}
	h.signIn(w, r, session, "core.flash.signed_in", view.Next)
}

func (h handlers) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	next := routepath.SafeNext(r.URL.Query().Get(routepath.NextQueryKey))
	if h.ResolveRequestViewer(r).SignedIn {
		h.Redirect(w, r, landing(next))
		return
	}
	h.renderRegister(w, r, http.StatusOK, templates.AuthView{Next: next})
}

func (h handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form"))
		return
	}
	view := parseRegisterForm(r.PostForm)
	view.Next = routepath.SafeNext(r.PostForm.Get(routepath.NextQueryKey))
	session, err := h.service.register(h.RequestContext(r), view, r.PostForm.Get("password"))
	if err != nil {
		if !formError(err) {
			h.WriteError(w, r, err)
			return
		}
		view.ErrorKey = apperrors.LocalizationKey(err)
		h.renderRegister(w, r, apperrors.HTTPStatus(err), view)
		return
	}
	h.signIn(w, r, session, "core.flash.registered", view.Next)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessioncookie.Clear(w, r, h.SchemePolicy())
	h.Notify(w, r, flashnotice.Info("core.flash.signed_out"))
	h.Redirect(w, r, routepath.Root)
}

func (h handlers) signIn(w http.ResponseWriter, r *http.Request, session auth.Session, key, next string) {
	sessioncookie.Write(w, r, h.SchemePolicy(), session.AccessToken, session.ExpiresAt)
	h.Notify(w, r, flashnotice.Success(key))
	h.Redirect(w, r, landing(next))
}

func (h handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, view templates.AuthView) {
	h.WritePage(w, r, pagerender.Page{
		Title:      h.Localizer(w, r).Sprintf("account.login.title"),
		StatusCode: status,
		Body:       templates.Page("account/login", view),
	})
}

func (h handlers) renderRegister(w http.ResponseWriter, r *http.Request, status int, view templates.AuthView) {
	h.WritePage(w, r, pagerender.Page{
		Title:      h.Localizer(w, r).Sprintf("account.register.title"),
		StatusCode: status,
		Body:       templates.Page("account/register", view),
	})
}

func landing(next string) string {
	if next == "" {
		return routepath.Root
	}
	return next
}

// formError reports whether err should be shown on the form rather than as
// an error page.
func formError(err error) bool {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput, apperrors.KindUnauthorized, apperrors.KindConflict, apperrors.KindRateLimited:
		return apperrors.LocalizationKey(err) != ""
	default:
		return false
	}
}
