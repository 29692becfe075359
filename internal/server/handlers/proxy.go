package handlers

import (
	"io"
	"net/http"

	"github.com/agentstation/apirunner/internal/server/response"
	"github.com/agentstation/apirunner/pkg/logging"
	"github.com/agentstation/apirunner/pkg/proxy"
)

// HandleProxy handles POST /api/proxy.
//
// The relay always answers 200 with the ProxyResponse as the body, whatever
// the upstream said or whether it was reachable at all. Only a body that is
// not a relay request gets a 400 envelope.
func (h *Handlers) HandleProxy(w http.ResponseWriter, r *http.Request) {
	req, err := proxy.DecodeRequest(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		response.BadRequest(w, "Invalid proxy request", err.Error())
		return
	}

	ctx := logging.WithOperation(r.Context(), "proxy")
	resp := h.client.Proxy(ctx, req)

	response.Raw(w, http.StatusOK, resp)
}
