package auth

import "context"

type identityKey struct{}

// WithIdentity returns ctx carrying the authenticated identity.
// The interceptors call it after a token has been accepted.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity recorded by WithIdentity, or ""
// for a request that was never authenticated.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := identityOf(ctx)
	return identity
}

// identityOf distinguishes an authenticated empty identity from no
// authentication at all.
func identityOf(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey{}).(string)
	return identity, ok
}
