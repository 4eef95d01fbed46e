package auth

import "context"

type contextKey string

const tokenKey contextKey = "bearer_token"

// WithToken returns a new context carrying the caller's raw bearer token so
// outbound service-to-service calls can relay it
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext retrieves the bearer token from context, or "" if absent
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey).(string); ok {
		return token
	}
	return ""
}
