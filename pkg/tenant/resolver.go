package tenant

import (
	"net/http"
	"strings"
)

// Resolver extracts a tenant slug from HTTP requests.
type Resolver interface {
	// Resolve extracts the tenant slug from the request.
	// Returns empty string if the request is not bound to a tenant.
	Resolve(r *http.Request) (string, error)
}

// HostResolver derives a tenant slug from the request host. A host
// maps to a tenant when it is a single-label subdomain of the
// configured base domain; the apex domain and the reserved "www"
// label never resolve to a tenant.
type HostResolver struct {
	// BaseDomain is the platform's root domain (e.g. "univ.live").
	BaseDomain string
	// DevHost, when the request host equals it, switches resolution to
	// the DevParam query parameter. Local development convenience.
	DevHost string
	// DevParam is the query parameter carrying the slug override on the
	// development host. Defaults to "tenant".
	DevParam string
}

// NewHostResolver creates a resolver for the given base domain.
func NewHostResolver(baseDomain string) *HostResolver {
	return &HostResolver{
		BaseDomain: baseDomain,
		DevHost:    "localhost",
		DevParam:   "tenant",
	}
}

// Resolve derives the tenant slug from the request host. It never
// returns an error: a host unrelated to the platform is "no tenant",
// not a failure.
func (hr *HostResolver) Resolve(r *http.Request) (string, error) {
	host := stripPort(r.Host)

	if hr.DevHost != "" && host == hr.DevHost {
		param := hr.DevParam
		if param == "" {
			param = "tenant"
		}
		return strings.ToLower(r.URL.Query().Get(param)), nil
	}

	return ResolveHost(host, hr.BaseDomain), nil
}

// ResolveHost maps a hostname to a tenant slug under the given base
// domain. Returns "" when the host is unrelated to the base domain,
// is the apex itself, carries the reserved "www" label, or nests
// deeper than a single subdomain label.
func ResolveHost(host, baseDomain string) string {
	if host == "" || baseDomain == "" {
		return ""
	}

	host = stripPort(host)
	hostLabels := strings.Split(host, ".")
	baseLabels := strings.Split(baseDomain, ".")

	if len(hostLabels) < len(baseLabels) {
		return ""
	}

	// The trailing labels must match the base domain exactly.
	suffix := strings.Join(hostLabels[len(hostLabels)-len(baseLabels):], ".")
	if suffix != baseDomain {
		return ""
	}

	// The apex domain is the main site, never a tenant.
	if len(hostLabels) == len(baseLabels) {
		return ""
	}

	// A valid slug is exactly one label deep.
	if len(hostLabels) != len(baseLabels)+1 {
		return ""
	}

	slug := hostLabels[0]
	if slug == "www" || slug == "" {
		return ""
	}

	return strings.ToLower(slug)
}

func stripPort(host string) string {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		return host[:idx]
	}
	return host
}

// ResolverFunc is an adapter to allow ordinary functions as Resolvers.
type ResolverFunc func(r *http.Request) (string, error)

// Resolve calls the function.
func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}
