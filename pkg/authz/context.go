package authz

import (
	"context"
	"log/slog"
)

// callerCtxKey is the context key for storing the caller context.
type callerCtxKey struct{}

// WithCaller stores the resolved caller in the context.
func WithCaller(ctx context.Context, caller *CallerContext) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, caller)
}

// FromContext retrieves the resolved caller from the context.
func FromContext(ctx context.Context) (*CallerContext, bool) {
	caller, ok := ctx.Value(callerCtxKey{}).(*CallerContext)
	return caller, ok
}

// MustFromContext retrieves the caller and panics when absent. Only
// for handlers mounted behind RequireRole.
func MustFromContext(ctx context.Context) *CallerContext {
	caller, ok := FromContext(ctx)
	if !ok || caller == nil {
		panic("authz: no caller in context")
	}
	return caller
}

// LoggerExtractor returns a logger context extractor that records the
// caller's subject id and role.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		caller, ok := FromContext(ctx)
		if !ok || caller == nil {
			return slog.Attr{}, false
		}
		return slog.Group("caller",
			slog.String("subject", caller.Subject()),
			slog.String("role", string(caller.Role)),
		), true
	}
}
