package identity

import "errors"

var (
	// ErrMissingToken is returned when no bearer credential is present
	// on the request.
	ErrMissingToken = errors.New("identity: missing bearer token")

	// ErrInvalidToken is returned for any credential that fails
	// verification. The reason is deliberately not exposed.
	ErrInvalidToken = errors.New("identity: invalid token")

	// ErrMissingSigningSecret is returned when the verifier is
	// constructed without a signing secret.
	ErrMissingSigningSecret = errors.New("identity: missing signing secret")
)
