package enrollment

import (
	"github.com/univlive/platform/pkg/profile"
)

// State is the outcome of evaluating a caller against tenant-scoped
// content. States are ordered by evaluation priority; Evaluate returns
// the first one that applies.
type State int

const (
	// StateLoading means auth or tenant data is not yet available and
	// no decision can be made.
	StateLoading State = iota
	// StateUnauthenticated means no profile is available for the caller.
	StateUnauthenticated
	// StateWrongRole means the caller is authenticated but not a
	// student; tenant content pages are not theirs to view.
	StateWrongRole
	// StateNotEnrolled means the student has a valid account but no
	// enrollment for this tenant.
	StateNotEnrolled
	// StateEnrolled grants access. Terminal.
	StateEnrolled
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateWrongRole:
		return "wrong_role"
	case StateNotEnrolled:
		return "not_enrolled"
	case StateEnrolled:
		return "enrolled"
	default:
		return "unknown"
	}
}

// Evaluate decides whether a caller may view content under the given
// tenant. The priority order is fixed: loading short-circuits first,
// then missing profile, then role mismatch, then enrollment.
//
// An empty tenant slug means the request is on the apex/main domain,
// where there is no tenant to enroll into; the guard is bypassed and
// access granted.
func Evaluate(p *profile.Profile, tenantSlug string, loading bool) State {
	if tenantSlug == "" {
		return StateEnrolled
	}
	if loading {
		return StateLoading
	}
	if p == nil {
		return StateUnauthenticated
	}
	if p.Role != profile.RoleStudent {
		return StateWrongRole
	}
	if !p.IsEnrolled(tenantSlug) {
		return StateNotEnrolled
	}
	return StateEnrolled
}

// Redirect maps a non-terminal guard state to a navigation target.
// Every failure branch is a redirect, not a hard error: the guard
// shapes navigation rather than acting as an API boundary.
//
// An authenticated caller with the wrong role lands on the generic
// dashboard, not the login page. A student without enrollment lands on
// the tenant's public home with a user-visible notice, since their
// account is valid, just not for this tenant.
func Redirect(state State, tenantSlug string) (location, notice string) {
	switch state {
	case StateUnauthenticated:
		return "/login", ""
	case StateWrongRole:
		return "/dashboard", ""
	case StateNotEnrolled:
		return "/", "You are not enrolled with this institute. Contact your educator for access."
	default:
		return "", ""
	}
}
