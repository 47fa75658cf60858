package auth

import "context"

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity stores verified session claims in ctx.
func WithIdentity(ctx context.Context, c *SessionClaims) context.Context {
	return context.WithValue(ctx, identityKey, c)
}

// IdentityFrom returns the claims stored by WithIdentity.
func IdentityFrom(ctx context.Context) (*SessionClaims, bool) {
	c, ok := ctx.Value(identityKey).(*SessionClaims)
	return c, ok && c != nil
}
