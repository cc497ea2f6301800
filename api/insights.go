package api

import (
	"encoding/json"
	"net/http"

	"github.com/univlive/platform/core"
	"github.com/univlive/platform/pkg/insights"
)

func (h *handlers) analyzePerformance(w http.ResponseWriter, r *http.Request) {
	var sub insights.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.writeError(w, r, core.ErrBadRequest)
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), sub)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, report)
}
