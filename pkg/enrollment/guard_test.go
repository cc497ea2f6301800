package enrollment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univlive/platform/pkg/authz"
	"github.com/univlive/platform/pkg/enrollment"
	"github.com/univlive/platform/pkg/identity"
	"github.com/univlive/platform/pkg/profile"
	"github.com/univlive/platform/pkg/tenant"
)

func student(slugs ...string) *profile.Profile {
	return &profile.Profile{Subject: "u-1", Role: profile.RoleStudent, EnrolledTenants: slugs}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile *profile.Profile
		slug    string
		loading bool
		want    enrollment.State
	}{
		{"apex bypasses the guard", nil, "", false, enrollment.StateEnrolled},
		{"loading short-circuits", student("abc"), "abc", true, enrollment.StateLoading},
		{"loading wins even without profile", nil, "abc", true, enrollment.StateLoading},
		{"no profile means unauthenticated", nil, "abc", false, enrollment.StateUnauthenticated},
		{
			"educator has the wrong role",
			&profile.Profile{Subject: "e-1", Role: profile.RoleEducator},
			"abc", false, enrollment.StateWrongRole,
		},
		{
			"admin has the wrong role",
			&profile.Profile{Subject: "a-1", Role: profile.RoleAdmin},
			"abc", false, enrollment.StateWrongRole,
		},
		{"student not enrolled here", student("xyz"), "abc-coaching", false, enrollment.StateNotEnrolled},
		{"enrolled student passes", student("xyz", "abc-coaching"), "abc-coaching", false, enrollment.StateEnrolled},
		{"student with no enrollments", student(), "abc", false, enrollment.StateNotEnrolled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, enrollment.Evaluate(tt.profile, tt.slug, tt.loading))
		})
	}
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("unauthenticated goes to login", func(t *testing.T) {
		t.Parallel()
		location, notice := enrollment.Redirect(enrollment.StateUnauthenticated, "abc")
		assert.Equal(t, "/login", location)
		assert.Empty(t, notice)
	})

	t.Run("wrong role goes to dashboard, not login", func(t *testing.T) {
		t.Parallel()
		location, notice := enrollment.Redirect(enrollment.StateWrongRole, "abc")
		assert.Equal(t, "/dashboard", location)
		assert.Empty(t, notice)
	})

	t.Run("not enrolled goes to tenant home with a notice", func(t *testing.T) {
		t.Parallel()
		location, notice := enrollment.Redirect(enrollment.StateNotEnrolled, "abc")
		assert.Equal(t, "/", location)
		assert.NotEmpty(t, notice)
	})

	t.Run("enrolled has no redirect", func(t *testing.T) {
		t.Parallel()
		location, _ := enrollment.Redirect(enrollment.StateEnrolled, "abc")
		assert.Empty(t, location)
	})
}

type guardVerifier struct {
	principal *identity.Principal
	err       error
}

func (v *guardVerifier) Verify(ctx context.Context, rawToken string) (*identity.Principal, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.principal, nil
}

type guardProfiles struct {
	profiles map[string]*profile.Profile
}

func (s *guardProfiles) Get(ctx context.Context, subject string) (*profile.Profile, error) {
	return s.profiles[subject], nil
}

func TestRequire(t *testing.T) {
	t.Parallel()

	withTenant := func(req *http.Request, slug string) *http.Request {
		return req.WithContext(tenant.WithTenant(req.Context(), &tenant.Tenant{Slug: slug, Active: true}))
	}

	newGate := func(p *profile.Profile) *authz.Gate {
		profiles := map[string]*profile.Profile{}
		if p != nil {
			profiles[p.Subject] = p
		}
		return authz.NewGate(
			&guardVerifier{principal: &identity.Principal{Subject: "u-1"}},
			&guardProfiles{profiles: profiles},
		)
	}

	authed := func(slug string) *http.Request {
		req := httptest.NewRequest("GET", "/tenant/content", nil)
		req.Header.Set("Authorization", "Bearer token")
		return withTenant(req, slug)
	}

	t.Run("enrolled student reaches the handler", func(t *testing.T) {
		t.Parallel()

		mw := enrollment.Require(newGate(student("abc-coaching")))
		var caller *authz.CallerContext
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller = authz.MustFromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authed("abc-coaching"))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, caller)
		assert.Equal(t, "u-1", caller.Subject())
	})

	t.Run("student enrolled elsewhere is redirected to tenant home", func(t *testing.T) {
		t.Parallel()

		mw := enrollment.Require(newGate(student("xyz")))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authed("abc-coaching"))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?notice=not_enrolled", rec.Header().Get("Location"))
	})

	t.Run("educator is redirected to the dashboard", func(t *testing.T) {
		t.Parallel()

		mw := enrollment.Require(newGate(&profile.Profile{
			Subject: "u-1", Role: profile.RoleEducator,
		}))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authed("abc-coaching"))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("missing credential is redirected to login", func(t *testing.T) {
		t.Parallel()

		mw := enrollment.Require(newGate(nil))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest("GET", "/tenant/content", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withTenant(req, "abc-coaching"))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("apex request passes through untouched", func(t *testing.T) {
		t.Parallel()

		mw := enrollment.Require(newGate(nil))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/tenant/content", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
