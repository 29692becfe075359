package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/apirunner/internal/server/response"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/logging"
	"github.com/agentstation/apirunner/pkg/mapping"
	"github.com/agentstation/apirunner/pkg/profile"
)

// planUpsertRequest is the body of POST /api/upsert/plan. Either record
// (mapped through rules when given) or properties supplies the property set.
type planUpsertRequest struct {
	Base       json.RawMessage `json:"base,omitempty"`
	Rules      []mapping.Rule  `json:"rules,omitempty"`
	Record     json.RawMessage `json:"record,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
}

// planUpsertResponse carries the plan and the id it can be executed by.
type planUpsertResponse struct {
	PlanID string       `json:"planId"`
	Plan   hubspot.Plan `json:"plan"`
}

// executeUpsertRequest is the body of POST /api/upsert/execute.
type executeUpsertRequest struct {
	Base   json.RawMessage `json:"base,omitempty"`
	PlanID string          `json:"planId,omitempty"`
	Plan   *hubspot.Plan   `json:"plan,omitempty"`
	DryRun bool            `json:"dryRun"`
}

// HandlePlanUpsert handles POST /api/upsert/plan.
func (h *Handlers) HandlePlanUpsert(w http.ResponseWriter, r *http.Request) {
	var req planUpsertRequest
	if err := decodeBody(r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	base, err := h.baseProfile(req.Base)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if err := mapping.Validate(req.Rules); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	ctx := logging.WithOperation(r.Context(), "upsert.plan")

	var plan hubspot.Plan
	switch {
	case !isAbsent(req.Record):
		plan, err = h.client.Planner().PlanUpsertFromJSON(ctx, base, req.Record, req.Rules)
	case req.Properties != nil:
		plan, err = h.client.PlanUpsert(ctx, base, req.Properties)
	default:
		err = errors.NewValidationError("record", nil, "record or properties is required")
	}
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, planUpsertResponse{
		PlanID: h.plans.PutPlan(plan),
		Plan:   plan,
	})
}

// HandleExecuteUpsert handles POST /api/upsert/execute. A plan referenced by
// id is consumed by a real execution but kept across dry runs. Upstream
// failures are reported inside the ProxyResponse, not as HTTP errors.
func (h *Handlers) HandleExecuteUpsert(w http.ResponseWriter, r *http.Request) {
	var req executeUpsertRequest
	if err := decodeBody(r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	base, err := h.baseProfile(req.Base)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var plan hubspot.Plan
	switch {
	case req.Plan != nil:
		plan = *req.Plan
	case req.PlanID != "":
		var ok bool
		if req.DryRun {
			plan, ok = h.plans.Plan(req.PlanID)
		} else {
			plan, ok = h.plans.TakePlan(req.PlanID)
		}
		if !ok {
			response.ErrorFromType(w, errors.NewNotFoundError("plan", req.PlanID))
			return
		}
	default:
		response.ErrorFromType(w, errors.NewValidationError("plan", nil, "plan or planId is required"))
		return
	}

	ctx := logging.WithOperation(r.Context(), "upsert.execute")
	resp, err := h.client.ExecuteUpsert(ctx, base, plan, req.DryRun)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, resp)
}

// baseProfile decodes the upsert base, falling back to the public API with
// the configured token when none is given.
func (h *Handlers) baseProfile(raw json.RawMessage) (profile.Profile, error) {
	token := h.app.HubSpotToken()
	if isAbsent(raw) {
		if token == "" {
			return profile.Profile{}, errors.NewValidationError("base", nil, "is required when no HubSpot token is configured")
		}
		return hubspot.BaseProfile(token), nil
	}
	base, err := decodeProfile(raw, "base")
	if err != nil {
		return profile.Profile{}, err
	}
	return hubspot.WithToken(base, token), nil
}
