package middleware

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxAccessID contextKey = "access_id"
	ctxScope    contextKey = "request_scope"
)

// requestScope is shared by every middleware of one request, so outer layers can
// log identifiers that inner layers resolve.
type requestScope struct {
	mu     sync.Mutex
	userID string
}

func withRequestScope(ctx context.Context) context.Context {
	if scopeFromContext(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, ctxScope, &requestScope{})
}

func scopeFromContext(ctx context.Context) *requestScope {
	if ctx == nil {
		return nil
	}
	scope, _ := ctx.Value(ctxScope).(*requestScope)
	return scope
}

// scopedUserID returns the user resolved anywhere below the scope, even after the handler returned.
func scopedUserID(ctx context.Context) string {
	if id := UserIDFromContext(ctx); id != "" {
		return id
	}
	scope := scopeFromContext(ctx)
	if scope == nil {
		return ""
	}
	scope.mu.Lock()
	defer scope.mu.Unlock()
	return scope.userID
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// UserUUIDFromContext returns uuid.Nil for anonymous requests.
func UserUUIDFromContext(ctx context.Context) uuid.UUID {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// AccessIDFromContext returns the jti of the authenticated access token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if scope := scopeFromContext(ctx); scope != nil {
		scope.mu.Lock()
		scope.userID = userID
		scope.mu.Unlock()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
