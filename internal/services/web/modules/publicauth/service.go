package publicauth

import (
	"context"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/storefront/internal/services/api/auth"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

const minPasswordLength = 8

type service struct {
	gateway AuthGateway
}

func newService(gateway AuthGateway) service {
	return service{gateway: gateway}
}

func (s service) login(ctx context.Context, email, password string) (auth.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return auth.Session{}, apperrors.EK(apperrors.KindInvalidInput, "account.login.invalid", "email and password are required")
	}
	session, err := s.gateway.Login(ctx, auth.LoginInput{Email: strings.TrimSpace(email), Password: password})
	if apperrors.KindOf(err) == apperrors.KindUnauthorized {
		// Unknown email and wrong password read the same.
		return auth.Session{}, apperrors.EK(apperrors.KindUnauthorized, "account.login.invalid", "invalid credentials")
	}
	return session, err
}

func (s service) register(ctx context.Context, form templates.AuthView, password string) (auth.Session, error) {
	if form.Email == "" || form.FirstName == "" || form.LastName == "" {
		return auth.Session{}, apperrors.EK(apperrors.KindInvalidInput, "account.register.missing_fields", "missing fields")
	}
	if addr, err := mail.ParseAddress(form.Email); err != nil || addr.Address != form.Email {
		return auth.Session{}, apperrors.EK(apperrors.KindInvalidInput, "account.register.invalid_email", "invalid email")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return auth.Session{}, apperrors.EK(apperrors.KindInvalidInput, "account.register.password_short", "password too short")
	}
	return s.gateway.Register(ctx, auth.RegisterInput{
		Email:     form.Email,
		Password:  password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
	})
}

func parseRegisterForm(values url.Values) templates.AuthView {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }
	return templates.AuthView{
		Email:     get("email"),
		FirstName: get("firstName"),
		LastName:  get("lastName"),
		Phone:     get("phone"),
	}
}
