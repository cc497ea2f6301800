// Package api wires the platform's HTTP surface: subscription
// checkout, upload authentication, performance analysis, and
// tenant-scoped content behind the enrollment guard.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/univlive/platform/core"
	"github.com/univlive/platform/pkg/authz"
	"github.com/univlive/platform/pkg/billing"
	"github.com/univlive/platform/pkg/enrollment"
	"github.com/univlive/platform/pkg/httpserver"
	"github.com/univlive/platform/pkg/imagekit"
	"github.com/univlive/platform/pkg/insights"
	"github.com/univlive/platform/pkg/profile"
	"github.com/univlive/platform/pkg/tenant"
)

// Deps carries everything the router needs. All fields except
// TenantCache and Healthchecks are required.
type Deps struct {
	Log          *slog.Logger
	Gate         *authz.Gate
	Billing      *billing.Manager
	Signer       *imagekit.Signer
	Analyzer     *insights.Analyzer
	Resolver     tenant.Resolver
	Tenants      tenant.Provider
	TenantCache  tenant.Cache
	Healthchecks []func(context.Context) error
}

type handlers struct {
	log      *slog.Logger
	cfg      Config
	billing  *billing.Manager
	signer   *imagekit.Signer
	analyzer *insights.Analyzer
	validate *validator.Validate
}

// NewRouter builds the chi router with all routes mounted.
func NewRouter(cfg Config, deps Deps) http.Handler {
	h := &handlers{
		log:      deps.Log,
		cfg:      cfg,
		billing:  deps.Billing,
		signer:   deps.Signer,
		analyzer: deps.Analyzer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		core.WriteJSONError(w, core.ErrNotFound, !cfg.Production())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		core.WriteJSONError(w, core.ErrMethodNotAllowed, !cfg.Production())
	})

	r.Get("/health", httpserver.HealthCheckHandler(context.Background(), deps.Log, deps.Healthchecks...))

	r.Route("/billing", func(r chi.Router) {
		r.Use(authz.RequireRole(deps.Gate,
			[]profile.Role{profile.RoleEducator, profile.RoleAdmin},
			authz.WithErrorHandler(h.writeError)))
		r.Post("/create-subscription", h.createSubscription)
		r.Get("/subscription", h.getSubscription)
	})

	r.Route("/imagekit-auth", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowOriginFunc:    h.allowOrigin,
			AllowedMethods:     []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials:   true,
			MaxAge:             300,
			OptionsPassthrough: true,
		}))
		r.Options("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(authz.RequireRole(deps.Gate,
			[]profile.Role{profile.RoleAdmin},
			authz.WithErrorHandler(h.writeError))).
			Get("/", h.imagekitAuth)
	})

	r.Post("/ai/analyze-performance", h.analyzePerformance)

	r.Route("/tenant", func(r chi.Router) {
		tenantOpts := []tenant.Option{tenant.WithRequireActive(true)}
		if deps.TenantCache != nil {
			tenantOpts = append(tenantOpts, tenant.WithCache(deps.TenantCache))
		}
		r.Use(tenant.Middleware(deps.Resolver, deps.Tenants, tenantOpts...))
		r.Use(enrollment.Require(deps.Gate))
		r.Get("/content", h.tenantContent)
	})

	return r
}
