// Package hubspot plans and executes idempotent contact upserts keyed by
// email against a HubSpot-style CRM API.
//
// Upserts are two-phase. Planning performs at most one search call and
// decides create, update or noop; execution performs at most one write, or
// none at all for dry runs and noops. A plan is never modified after it is
// produced.
package hubspot

import (
	"github.com/agentstation/apirunner/pkg/differ"
)

// Action is the decided upsert outcome.
type Action string

// Plan actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionNoop   Action = "noop"
)

// String returns the string representation of an Action.
func (a Action) String() string {
	return string(a)
}

// Plan is the decision artifact produced by planning and consumed once by
// execution.
//
// MatchEmail is set for creates that had a key to search on. ID is set for
// updates and noops. Diff lists only changed fields and is informational:
// updates always send the full Properties. A noop carries an empty diff.
type Plan struct {
	Action     Action         `json:"action" yaml:"action"`
	MatchEmail string         `json:"matchEmail,omitempty" yaml:"matchEmail,omitempty"`
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	Properties map[string]any `json:"properties" yaml:"properties"`
	Diff       differ.Diff    `json:"diff,omitzero" yaml:"diff,omitempty"`
}
