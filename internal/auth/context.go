package auth

import "context"

type contextKey string

const authContextKey contextKey = "llm_router_auth"

// AuthInfo holds the identity of an authenticated caller.
type AuthInfo struct {
	KeyID string
}

func ContextWithAuth(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, authContextKey, info)
}

func AuthFromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(authContextKey).(*AuthInfo)
	return info, ok
}
