package identity

import "context"

// Principal is the verified identity resulting from validating a
// bearer credential. It lives only for the duration of a request.
type Principal struct {
	// Subject is the stable, provider-issued subject identifier.
	Subject string
	// Email is present when the provider attached a string email claim.
	Email string
	// Claims carries all provider claims opaquely. Downstream code may
	// project named fields out of it but must not trust its shape.
	Claims map[string]any
}

// Verifier validates a raw bearer token against the identity provider
// and yields a verified Principal.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}
