// Package errors defines web typed application errors.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindUnavailable  Kind = "unavailable"
)

// Error is a typed web application failure.
type Error struct {
	Kind Kind
	Key  string
	// Code carries the API error code when the failure came from the API.
	Code    string
	Message string
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// FromAPI maps an API error response onto a typed Error.
func FromAPI(status int, code string, message string) error {
	code = strings.TrimSpace(code)
	return Error{Kind: kindForStatus(status), Key: keyForCode(code), Code: code, Message: strings.TrimSpace(message)}
}

// KindOf returns the error kind, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return KindUnknown
	}
	return appErr.Kind
}

// CodeOf returns the API error code when available.
func CodeOf(err error) string {
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return ""
	}
	return appErr.Code
}

// LocalizationKey returns the structured localization key when available.
func LocalizationKey(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return ""
	}
	return strings.TrimSpace(appErr.Key)
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindInvalidInput
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// keyForCode picks the error.* catalog key for an API code.
func keyForCode(code string) string {
	switch code {
	case "":
		return ""
	case "ALREADY_EXISTS":
		return "error.api.already_exists"
	case "UNAUTHENTICATED":
		return "error.api.unauthenticated"
	case "FORBIDDEN", "ROLE_ASSIGNMENT_DENIED":
		return "error.api.forbidden"
	case "NOT_FOUND":
		return "error.api.not_found"
	case "RATE_LIMITED":
		return "error.api.rate_limited"
	case "ORDER_TOTALS_MISMATCH":
		return "error.api.order_totals_mismatch"
	case "ORDER_EMPTY_CART":
		return "error.api.order_empty_cart"
	case "PRODUCT_SLUG_TAKEN":
		return "error.api.product_slug_taken"
	case "SELF_DELETION":
		return "error.api.self_deletion"
	case "CSV_INVALID":
		return "error.api.csv_invalid"
	case "UNAVAILABLE":
		return "error.unavailable"
	case "INTERNAL", "UNKNOWN":
		return "error.internal"
	default:
		return "error.api.invalid"
	}
}
