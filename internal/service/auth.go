package service

import "context"

type userIDKey struct{}

// WithUserID returns a context carrying the authenticated user id. The
// auth middleware sets it, services read it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFrom extracts the authenticated user id. A missing or empty user
// is the recognized "not authenticated" state: operations short circuit to
// an empty result instead of failing.
func UserIDFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
