package auth

import (
	"context"

	"fintrack/internal/core"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *core.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (*core.User, bool) {
	u, ok := ctx.Value(userContextKey).(*core.User)
	return u, ok
}
