package auth

import "context"

// claimsKey is unexported so the middleware stays the only writer.
type claimsKey struct{}

// SetUserClaims returns a child context carrying the caller's identity.
func SetUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetUserClaims returns the claims installed by the auth middleware, or nil
// for anonymous requests.
func GetUserClaims(ctx context.Context) UserClaims {
	claims, _ := ctx.Value(claimsKey{}).(UserClaims)
	return claims
}
