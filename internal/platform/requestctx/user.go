// Package requestctx carries per-request identity through context.
package requestctx

import "context"

// User is the authenticated caller attached by the API auth guard.
type User struct {
	ID        string
	Email     string
	Role      string
	FirstName string
	LastName  string
	Phone     string
}

type userContextKey struct{}

type requestIDContextKey struct{}

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, user User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	user, ok := ctx.Value(userContextKey{}).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

// WithUserID stores a bare user identifier in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return WithUser(ctx, User{ID: userID})
}

// UserIDFromContext returns the user identifier stored in context.
func UserIDFromContext(ctx context.Context) string {
	user, _ := UserFromContext(ctx)
	return user.ID
}

// WithRequestID stores the request correlation id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request correlation id, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}
