package api

import (
	"net/http"

	"github.com/univlive/platform/core"
	"github.com/univlive/platform/pkg/authz"
	"github.com/univlive/platform/pkg/tenant"
)

type tenantContentResponse struct {
	Tenant  *tenant.Tenant `json:"tenant"`
	Subject string         `json:"subject"`
	Role    string         `json:"role"`
}

// tenantContent is the tenant-scoped page behind the enrollment guard.
// By the time it runs, the middleware chain has resolved the tenant
// and confirmed the caller is an enrolled student.
func (h *handlers) tenantContent(w http.ResponseWriter, r *http.Request) {
	tn, ok := tenant.FromContext(r.Context())
	if !ok {
		h.writeError(w, r, core.ErrNotFound)
		return
	}
	caller := authz.MustFromContext(r.Context())

	core.WriteJSON(w, http.StatusOK, tenantContentResponse{
		Tenant:  tn,
		Subject: caller.Subject(),
		Role:    string(caller.Role),
	})
}
