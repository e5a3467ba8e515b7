package domain

import "context"

// IdentityResolver resolves the authenticated user of a request context.
// It reports false when the request carries no identity.
type IdentityResolver interface {
	AuthenticatedUserID(ctx context.Context) (int64, bool)
}
