// Package errors provides structured domain errors with machine-readable
// codes that map onto HTTP status codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request validation
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInvalidFilter   Code = "INVALID_FILTER"
	CodeInvalidOrderBy  Code = "INVALID_ORDER_BY"

	// Identity and access
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeRateLimited     Code = "RATE_LIMITED"

	// Storage
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// Orders
	CodeOrderTotalsMismatch Code = "ORDER_TOTALS_MISMATCH"
	CodeOrderInvalidStatus  Code = "ORDER_INVALID_STATUS"
	CodeOrderEmptyCart      Code = "ORDER_EMPTY_CART"

	// Catalog
	CodeProductSlugTaken Code = "PRODUCT_SLUG_TAKEN"
	CodeCSVInvalid       Code = "CSV_INVALID"

	// Profiles
	CodeRoleAssignmentDenied Code = "ROLE_ASSIGNMENT_DENIED"
	CodeSelfDeletion         Code = "SELF_DELETION"

	// Dependencies
	CodeUnavailable Code = "UNAVAILABLE"
	CodeInternal    Code = "INTERNAL"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// BadRequest - validation failures, bad input
	case CodeInvalidArgument,
		CodeInvalidFilter,
		CodeInvalidOrderBy,
		CodeOrderTotalsMismatch,
		CodeOrderInvalidStatus,
		CodeOrderEmptyCart,
		CodeCSVInvalid,
		CodeSelfDeletion:
		return http.StatusBadRequest

	case CodeUnauthenticated:
		return http.StatusUnauthorized

	case CodeForbidden,
		CodeRoleAssignmentDenied:
		return http.StatusForbidden

	case CodeNotFound:
		return http.StatusNotFound

	// Conflict - unique resource constraint
	case CodeAlreadyExists,
		CodeProductSlugTaken:
		return http.StatusConflict

	case CodeRateLimited:
		return http.StatusTooManyRequests

	case CodeUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
