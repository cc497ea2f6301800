package api

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/univlive/platform/core"
	"github.com/univlive/platform/pkg/authz"
	"github.com/univlive/platform/pkg/billing"
	"github.com/univlive/platform/pkg/insights"
	"github.com/univlive/platform/pkg/logger"
)

// writeError is the single boundary between domain errors and HTTP
// responses. Authentication and authorization stay generic; validation
// failures get a specific key; everything else is a 500 whose detail
// is only exposed outside production.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	verbose := !h.cfg.Production()

	var (
		httpErr core.HTTPError
		valErr  core.ValidationError
	)
	switch {
	case errors.As(err, &valErr):
		core.WriteJSONError(w, valErr, verbose)
	case errors.As(err, &httpErr):
		core.WriteJSONError(w, httpErr, verbose)
	case errors.Is(err, authz.ErrForbidden):
		core.WriteJSONError(w, core.ErrForbidden, verbose)
	case errors.Is(err, authz.ErrUnauthenticated):
		core.WriteJSONError(w, core.ErrUnauthorized, verbose)
	case errors.Is(err, billing.ErrUnknownPlan):
		core.WriteJSONError(w, core.NewHTTPError(http.StatusBadRequest, "unknown_plan_key"), verbose)
	case errors.Is(err, insights.ErrMissingInput):
		core.WriteJSONError(w, core.NewHTTPError(http.StatusBadRequest, "missing_questions_or_responses"), verbose)
	default:
		h.log.ErrorContext(r.Context(), "request failed", logger.Error(err))
		core.WriteJSONError(w, err, verbose)
	}
}

// allowOrigin reflects origins from the configured allow-list, any
// localhost origin, and any subdomain of the base platform domain.
func (h *handlers) allowOrigin(r *http.Request, origin string) bool {
	if slices.Contains(h.cfg.AllowedOrigins, origin) {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Hostname() == "" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "localhost" || host == "127.0.0.1" {
		return true
	}

	base := strings.ToLower(h.cfg.BaseDomain)
	return host == base || strings.HasSuffix(host, "."+base)
}
