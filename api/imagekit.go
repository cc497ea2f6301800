package api

import (
	"net/http"

	"github.com/univlive/platform/core"
)

func (h *handlers) imagekitAuth(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, h.signer.UploadAuth())
}
