package authz

import "errors"

var (
	// ErrUnauthenticated is returned when the bearer credential is
	// missing or invalid, or when identity resolution fails for any
	// reason. The caller only learns that authentication failed.
	ErrUnauthenticated = errors.New("authz.unauthenticated")

	// ErrForbidden is returned when the credential is valid but the
	// resolved role is not permitted. No detail on the required role
	// is exposed.
	ErrForbidden = errors.New("authz.forbidden")

	// ErrNoCallerInContext is returned when no caller context is found
	// in the request context.
	ErrNoCallerInContext = errors.New("authz.no_caller_in_context")
)
