// Package access centralises the role checks of the storefront API.
package access

import (
	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
)

// Role is a profile role.
type Role string

const (
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole validates a role string.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleClient, RoleAdmin, RoleSuperadmin:
		return Role(value), true
	default:
		return "", false
	}
}

// IsStaff reports whether role may use the admin console.
func IsStaff(role Role) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}

// ErrAccessDenied is the error returned by failed role checks.
func ErrAccessDenied() error {
	return apperrors.New(apperrors.CodeForbidden, "Access denied")
}

// RequireUser fails with UNAUTHENTICATED when no user is present.
func RequireUser(user requestctx.User, ok bool) error {
	if !ok || user.ID == "" {
		return apperrors.New(apperrors.CodeUnauthenticated, "Authentication required")
	}
	return nil
}

// RequireStaff fails with FORBIDDEN unless user is staff.
func RequireStaff(user requestctx.User) error {
	if user.ID == "" || !IsStaff(Role(user.Role)) {
		return ErrAccessDenied()
	}
	return nil
}

// RequireSelfOrStaff fails unless user is targetID or staff.
func RequireSelfOrStaff(user requestctx.User, targetID string) error {
	if user.ID == "" {
		return ErrAccessDenied()
	}
	if user.ID == targetID || IsStaff(Role(user.Role)) {
		return nil
	}
	return ErrAccessDenied()
}

// CanAssignRole reports whether actor may change a profile currently
// holding target to newRole. Admins manage clients and admins; only a
// superadmin may grant superadmin or modify a superadmin.
func CanAssignRole(actor, target, newRole Role) bool {
	if !IsStaff(actor) {
		return false
	}
	if actor == RoleSuperadmin {
		return true
	}
	if target == RoleSuperadmin || newRole == RoleSuperadmin {
		return false
	}
	return true
}
