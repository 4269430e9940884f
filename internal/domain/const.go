package domain

import "context"

const (
	RequesterCtxKey = "wb-requester"
	AuthTokenCtxKey = "wb-authToken"
)

// RequesterFromContext returns the user the auth middleware attached to
// the request context.
func RequesterFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(RequesterCtxKey).(User)
	return user, ok
}

// AuthTokenFromContext returns the token the auth middleware attached to
// the request context.
func AuthTokenFromContext(ctx context.Context) (AuthToken, bool) {
	token, ok := ctx.Value(AuthTokenCtxKey).(AuthToken)
	return token, ok
}
