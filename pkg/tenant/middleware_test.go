package tenant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univlive/platform/pkg/tenant"
)

type stubProvider struct {
	tenants map[string]*tenant.Tenant
	calls   int
}

func (p *stubProvider) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	p.calls++
	if t, ok := p.tenants[slug]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func newTenantRequest(host string) *http.Request {
	req := httptest.NewRequest("GET", "https://"+host+"/", nil)
	req.Host = host
	return req
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	active := &tenant.Tenant{Slug: "abc-coaching", EducatorID: "edu-1", Active: true}

	t.Run("attaches tenant to context", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{tenants: map[string]*tenant.Tenant{"abc-coaching": active}}
		mw := tenant.Middleware(tenant.NewHostResolver("univ.live"), provider)

		var got *tenant.Tenant
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = tenant.FromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newTenantRequest("abc-coaching.univ.live"))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "abc-coaching", got.Slug)
		assert.Equal(t, "edu-1", got.EducatorID)
	})

	t.Run("apex passes through without tenant", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{tenants: map[string]*tenant.Tenant{}}
		mw := tenant.Middleware(tenant.NewHostResolver("univ.live"), provider)

		var had bool
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, had = tenant.FromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newTenantRequest("univ.live"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, had)
		assert.Zero(t, provider.calls)
	})

	t.Run("unknown slug is rejected", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{tenants: map[string]*tenant.Tenant{}}
		mw := tenant.Middleware(tenant.NewHostResolver("univ.live"), provider)

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newTenantRequest("ghost.univ.live"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("inactive tenant is rejected", func(t *testing.T) {
		t.Parallel()

		inactive := &tenant.Tenant{Slug: "paused", Active: false}
		provider := &stubProvider{tenants: map[string]*tenant.Tenant{"paused": inactive}}
		mw := tenant.Middleware(tenant.NewHostResolver("univ.live"), provider)

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newTenantRequest("paused.univ.live"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("second request is served from cache", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{tenants: map[string]*tenant.Tenant{"abc-coaching": active}}
		mw := tenant.Middleware(tenant.NewHostResolver("univ.live"), provider,
			tenant.WithCacheTTL(time.Minute))

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		handler.ServeHTTP(httptest.NewRecorder(), newTenantRequest("abc-coaching.univ.live"))
		handler.ServeHTTP(httptest.NewRecorder(), newTenantRequest("abc-coaching.univ.live"))

		assert.Equal(t, 1, provider.calls)
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{tenants: map[string]*tenant.Tenant{}}
		mw := tenant.Middleware(tenant.NewHostResolver("univ.live"), provider,
			tenant.WithSkipPaths("/health"))

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest("GET", "https://ghost.univ.live/health", nil)
		req.Host = "ghost.univ.live"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, provider.calls)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests without tenant", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("passes requests with tenant", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(tenant.WithTenant(req.Context(), &tenant.Tenant{Slug: "abc"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
