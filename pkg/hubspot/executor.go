package hubspot

import (
	"context"
	"net/http"
	"net/url"

	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/logging"
	"github.com/agentstation/apirunner/pkg/profile"
	"github.com/agentstation/apirunner/pkg/proxy"
)

// Execute carries out plan.
//
// A dry run returns a synthetic DryRun response carrying the plan and makes
// no call. A noop does the same with statusText Noop. Create POSTs the
// properties to the collection and update PATCHes the full property set to
// the record. Proxy failures are returned as data. Only a malformed plan
// (unknown action, update without id) is an error.
func (p *Planner) Execute(ctx context.Context, base profile.Profile, plan Plan, dryRun bool) (proxy.Response, error) {
	ctx = logging.WithOperation(ctx, "upsert.execute")
	logger := logging.FromContext(ctx)

	if dryRun {
		logger.Debug().Str("action", plan.Action.String()).Msg("Dry run, no call made")
		return proxy.Synthetic(constants.StatusTextDryRun, plan), nil
	}

	write := base.Clone()
	write.Body = map[string]any{"properties": plan.Properties}
	switch plan.Action {
	case ActionNoop:
		return proxy.Synthetic(constants.StatusTextNoop, plan), nil
	case ActionCreate:
		write.Path = p.objectPath
		write.Method = http.MethodPost
	case ActionUpdate:
		if plan.ID == "" {
			return proxy.Response{}, errors.NewValidationError("id", plan.ID, "update plan has no record id")
		}
		write.Path = p.objectPath + "/" + url.PathEscape(plan.ID)
		write.Method = http.MethodPatch
	default:
		return proxy.Response{}, errors.NewValidationError("action", plan.Action, "unknown plan action")
	}

	resp := p.exec.Execute(ctx, profile.ToRequest(write))
	logger.Info().
		Str("action", plan.Action.String()).
		Str("id", plan.ID).
		Int("status", resp.Status).
		Bool("ok", resp.OK).
		Msg("Upsert executed")
	return resp, nil
}

// Execute runs plan with a default contacts Planner.
func Execute(ctx context.Context, exec proxy.Executor, base profile.Profile, plan Plan, dryRun bool) (proxy.Response, error) {
	return NewPlanner(exec).Execute(ctx, base, plan, dryRun)
}
