package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/apirunner/internal/server/response"
	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/logging"
)

// buildDatasetRequest is the body of POST /api/dataset.
type buildDatasetRequest struct {
	ListProfile   json.RawMessage `json:"listProfile"`
	ArrayPath     string          `json:"arrayPath"`
	MaxItems      int             `json:"maxItems,omitempty"`
	DetailProfile json.RawMessage `json:"detailProfile,omitempty"`
	IDPath        string          `json:"idPath,omitempty"`
	IDVarName     string          `json:"idVarName,omitempty"`
	Concurrency   int             `json:"concurrency,omitempty"`
	RateLimit     float64         `json:"rateLimit,omitempty"`
	Save          string          `json:"save,omitempty"`
}

// HandleBuildDataset handles POST /api/dataset. A failed list call answers
// 502 with the upstream status in the error details; failed detail calls
// become error rows in an otherwise successful dataset.
func (h *Handlers) HandleBuildDataset(w http.ResponseWriter, r *http.Request) {
	var req buildDatasetRequest
	if err := decodeBody(r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	list, err := decodeProfile(req.ListProfile, "listProfile")
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	opts := []dataset.Option{
		dataset.WithMaxItems(req.MaxItems),
		dataset.WithConcurrency(req.Concurrency),
		dataset.WithRateLimit(req.RateLimit),
	}
	if !isAbsent(req.DetailProfile) {
		detail, err := decodeProfile(req.DetailProfile, "detailProfile")
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		opts = append(opts, dataset.WithDetail(detail, req.IDPath, req.IDVarName))
	}

	ctx := r.Context()
	if req.Save != "" {
		ctx = logging.WithDataset(ctx, req.Save)
	}

	ds, err := h.client.BuildDataset(ctx, list, req.ArrayPath, opts...)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	if req.Save != "" {
		if err := h.client.SaveDataset(ctx, req.Save, ds); err != nil {
			response.ErrorFromType(w, err)
			return
		}
	}

	response.OK(w, ds)
}

// HandleListDatasets handles GET /api/datasets.
func (h *Handlers) HandleListDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := h.client.ListDatasets(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"datasets": names,
		"count":    len(names),
	})
}

// HandleGetDataset handles GET /api/datasets/{name}.
func (h *Handlers) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := h.client.LoadDataset(r.Context(), r.PathValue("name"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, ds)
}

// HandleDeleteDataset handles DELETE /api/datasets/{name}.
func (h *Handlers) HandleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, err := h.client.LoadDataset(r.Context(), name); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if err := h.client.DeleteDataset(r.Context(), name); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"deleted": name})
}
