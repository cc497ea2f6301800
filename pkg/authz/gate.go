package authz

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/univlive/platform/pkg/identity"
	"github.com/univlive/platform/pkg/profile"
)

// CallerContext is the fully resolved, role-checked identity of a
// request. It bundles the verified principal, the normalized role, and
// the stored profile (nil when the caller has no profile record yet).
type CallerContext struct {
	Principal *identity.Principal
	Role      profile.Role
	Profile   *profile.Profile
}

// Subject returns the caller's provider-issued subject id.
func (c *CallerContext) Subject() string {
	return c.Principal.Subject
}

// Gate authenticates a request's bearer credential and resolves the
// caller's role from the profile store. It is the single entry point
// every protected handler runs before any business logic.
type Gate struct {
	verifier identity.Verifier
	profiles profile.Store
}

// NewGate creates a Gate. Panics on nil collaborators to fail fast
// during initialization.
func NewGate(verifier identity.Verifier, profiles profile.Store) *Gate {
	if verifier == nil {
		panic("authz: identity verifier is required")
	}
	if profiles == nil {
		panic("authz: profile store is required")
	}
	return &Gate{verifier: verifier, profiles: profiles}
}

// Authorize verifies the request's bearer token, loads the caller's
// profile, and checks role membership when allowed roles are given.
//
// The order is fixed: token extraction and verification happen before
// any profile lookup, so an unauthenticated request never touches the
// store. Every failure is a rejection — a store error is surfaced as
// ErrUnauthenticated rather than treated as "no restriction".
func (g *Gate) Authorize(ctx context.Context, r *http.Request, allowed ...profile.Role) (*CallerContext, error) {
	raw, err := identity.BearerToken(r)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}

	principal, err := g.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}

	p, err := g.profiles.Get(ctx, principal.Subject)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}

	// An authenticated caller without a profile record is a student
	// with no enrollments.
	role := profile.RoleStudent
	if p != nil {
		role = p.Role
	}

	if len(allowed) > 0 && !slices.Contains(allowed, role) {
		return nil, ErrForbidden
	}

	return &CallerContext{
		Principal: principal,
		Role:      role,
		Profile:   p,
	}, nil
}
