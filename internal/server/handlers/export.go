package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/apirunner/internal/server/response"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/export"
	"github.com/agentstation/apirunner/pkg/profile"
)

// exportRequest is the body of POST /api/export/n8n. A single profile
// yields one node; a list of profiles yields a workflow called name.
type exportRequest struct {
	Profile       json.RawMessage   `json:"profile,omitempty"`
	Profiles      []json.RawMessage `json:"profiles,omitempty"`
	Name          string            `json:"name,omitempty"`
	RedactSecrets bool              `json:"redactSecrets,omitempty"`
}

// HandleExportN8N handles POST /api/export/n8n.
func (h *Handlers) HandleExportN8N(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeBody(r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var opts []export.Option
	if req.RedactSecrets {
		opts = append(opts, export.WithRedactedSecrets())
	}

	if len(req.Profiles) == 0 {
		p, err := decodeProfile(req.Profile, "profile")
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		response.OK(w, export.N8NNode(p, opts...))
		return
	}

	if !isAbsent(req.Profile) {
		response.ErrorFromType(w, errors.NewValidationError("profile", nil, "use either profile or profiles"))
		return
	}

	profiles := make([]profile.Profile, 0, len(req.Profiles))
	for _, raw := range req.Profiles {
		p, err := decodeProfile(raw, "profiles")
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		profiles = append(profiles, p)
	}
	name := req.Name
	if name == "" {
		name = "apirunner export"
	}
	response.OK(w, export.N8NWorkflow(name, profiles, opts...))
}
