package middleware

import (
	"context"

	"feather-api/internal/user"
)

// unexported, collision-proof context key
type currentUserKeyType struct{}

var currentUserKey = currentUserKeyType{}

// CurrentUser extracts the authenticated user from a request context.
// Only set on requests that passed the fully-authenticated tier.
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(currentUserKey).(*user.User)
	return u, ok
}

func withCurrentUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}
