package enrollment

import (
	"net/http"

	"github.com/univlive/platform/pkg/authz"
	"github.com/univlive/platform/pkg/tenant"
)

// Require enforces the enrollment guard server-side for tenant-scoped
// content routes. Route guards evaluated only in the browser are not a
// control: any endpoint serving tenant content re-validates enrollment
// here using the gate and the stored profile.
//
// Requests on the apex domain (no tenant in context) pass through.
// Failure branches respond 303 with the guard's redirect target.
func Require(gate *authz.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tn, ok := tenant.FromContext(r.Context())
			if !ok || tn == nil {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := gate.Authorize(r.Context(), r)
			if err != nil {
				// No valid credential: the guard sends the caller to
				// login rather than answering 401.
				redirect(w, r, StateUnauthenticated, tn.Slug)
				return
			}

			state := Evaluate(caller.Profile, tn.Slug, false)
			if state != StateEnrolled {
				redirect(w, r, state, tn.Slug)
				return
			}

			next.ServeHTTP(w, r.WithContext(authz.WithCaller(r.Context(), caller)))
		})
	}
}

func redirect(w http.ResponseWriter, r *http.Request, state State, slug string) {
	location, notice := Redirect(state, slug)
	if location == "" {
		location = "/"
	}
	if notice != "" {
		// Carried as a query flag so the target page can surface the
		// notice to the user.
		location += "?notice=not_enrolled"
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
