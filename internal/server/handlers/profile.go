package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/apirunner/internal/server/response"
)

// HandleGetCurrentProfile handles GET /api/profile/current.
func (h *Handlers) HandleGetCurrentProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.client.CurrentProfile(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, p)
}

// HandlePutCurrentProfile handles PUT /api/profile/current.
func (h *Handlers) HandlePutCurrentProfile(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	p, err := decodeProfile(raw, "profile")
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if err := h.client.SetCurrentProfile(r.Context(), p); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, p)
}
