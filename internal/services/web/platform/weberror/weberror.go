// Package weberror renders shared storefront error responses for web modules.
package weberror

import (
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/storefront/internal/services/web/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/web/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/web/templates"
	"github.com/rs/zerolog/log"
)

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// PageKeys returns the catalog keys for the title and message of the error
// page shown for statusCode.
func PageKeys(statusCode int) (title, message string) {
	var slug string
	switch {
	case statusCode == http.StatusNotFound:
		slug = "not_found"
	case statusCode == http.StatusForbidden:
		slug = "forbidden"
	case statusCode == http.StatusServiceUnavailable:
		slug = "unavailable"
	case statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError:
		slug = "bad_request"
	default:
		slug = "internal"
	}
	return "error.page." + slug + ".title", "error.page." + slug + ".message"
}

// WriteAppError writes a localized error page for full-page and HTMX requests.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	loc, _ := webi18n.ResolveLocalizer(w, r)
	titleKey, messageKey := PageKeys(statusCode)
	err := pagerender.WritePage(w, r, resolver, pagerender.Page{
		Title:      loc.Sprintf(titleKey),
		StatusCode: statusCode,
		Body: templates.Page("error/page", templates.ErrorView{
			Status:     statusCode,
			TitleKey:   titleKey,
			MessageKey: messageKey,
		}),
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("render error page")
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError writes a module-safe localized error response.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode >= http.StatusInternalServerError && r != nil {
		log.Ctx(r.Context()).Error().Err(err).Int("status", statusCode).Msg("module request failed")
	}
	WriteAppError(w, r, statusCode, resolver)
}
