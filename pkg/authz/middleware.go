package authz

import (
	"errors"
	"net/http"

	"github.com/univlive/platform/pkg/profile"
)

// MiddlewareOption configures RequireRole behavior.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// WithErrorHandler overrides how gate failures are written to the
// response.
func WithErrorHandler(handler func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.errorHandler = handler
	}
}

// RequireRole runs the gate before the wrapped handler and places the
// resolved caller in the request context. With no roles given, any
// authenticated caller passes.
func RequireRole(gate *Gate, allowed []profile.Role, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		errorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
			WriteError(w, err)
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := gate.Authorize(r.Context(), r, allowed...)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// WriteError maps gate failures onto HTTP status codes with generic
// messages, so failed checks leak nothing about why they failed.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
}
