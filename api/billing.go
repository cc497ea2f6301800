package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/univlive/platform/core"
	"github.com/univlive/platform/pkg/authz"
	"github.com/univlive/platform/pkg/billing"
)

type createSubscriptionRequest struct {
	PlanKey  string `json:"planKey"  validate:"required"`
	Quantity int    `json:"quantity"`
}

func (h *handlers) createSubscription(w http.ResponseWriter, r *http.Request) {
	caller := authz.MustFromContext(r.Context())

	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, core.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, r, asValidationError(err))
		return
	}

	result, err := h.billing.Create(r.Context(), billing.CreateParams{
		EducatorID: educatorID(caller),
		Name:       callerName(caller),
		Email:      caller.Principal.Email,
		PlanKey:    req.PlanKey,
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, result)
}

func (h *handlers) getSubscription(w http.ResponseWriter, r *http.Request) {
	caller := authz.MustFromContext(r.Context())

	sub, err := h.billing.Get(r.Context(), educatorID(caller))
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			h.writeError(w, r, core.ErrNotFound)
			return
		}
		h.writeError(w, r, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, sub)
}

// educatorID keys billing records by the educator metadata record
// when the profile carries one, falling back to the auth subject.
func educatorID(caller *authz.CallerContext) string {
	if caller.Profile != nil && caller.Profile.EducatorID != "" {
		return caller.Profile.EducatorID
	}
	return caller.Subject()
}

func callerName(caller *authz.CallerContext) string {
	if caller.Profile != nil && caller.Profile.DisplayName != "" {
		return caller.Profile.DisplayName
	}
	return caller.Principal.Email
}

func asValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return core.ErrBadRequest
	}

	valErr := core.NewValidationError()
	for _, fe := range fieldErrs {
		valErr.Add(fe.Field(), "failed on "+fe.Tag())
	}
	return valErr
}
