package app

import (
	"context"

	"fitcoach/internal/domain"
)

type userContextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the authenticated user stored by WithUser.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*domain.User)
	return u, ok && u != nil
}

// ContextIdentity resolves identities stored with WithUser.
type ContextIdentity struct{}

// AuthenticatedUserID implements domain.IdentityResolver.
func (ContextIdentity) AuthenticatedUserID(ctx context.Context) (int64, bool) {
	u, ok := UserFromContext(ctx)
	if !ok || u.ID == 0 {
		return 0, false
	}
	return u.ID, true
}

func resolveUser(ctx context.Context, ids domain.IdentityResolver) (int64, error) {
	userID, ok := ids.AuthenticatedUserID(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}
