package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/agentstation/apirunner/pkg/differ"
	"github.com/agentstation/apirunner/pkg/dotpath"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/logging"
	"github.com/agentstation/apirunner/pkg/mapping"
	"github.com/agentstation/apirunner/pkg/profile"
	"github.com/agentstation/apirunner/pkg/proxy"
)

const (
	// DefaultObjectPath addresses the contacts object collection.
	DefaultObjectPath = "/crm/v3/objects/contacts"

	// DefaultKeyField is the natural key property.
	DefaultKeyField = "email"
)

// Planner plans and executes upserts through a proxy executor.
type Planner struct {
	exec       proxy.Executor
	differ     differ.Differ
	objectPath string
	keyField   string
}

// Option configures a Planner.
type Option func(*Planner)

// WithDiffer replaces the default property differ.
func WithDiffer(d differ.Differ) Option {
	return func(p *Planner) {
		p.differ = d
	}
}

// WithObjectPath targets another object collection, e.g. "/crm/v3/objects/companies".
func WithObjectPath(path string) Option {
	return func(p *Planner) {
		if path != "" {
			p.objectPath = path
		}
	}
}

// WithKeyField uses another property as the natural key.
func WithKeyField(field string) Option {
	return func(p *Planner) {
		if field != "" {
			p.keyField = field
		}
	}
}

// NewPlanner creates a Planner for contacts keyed by email.
func NewPlanner(exec proxy.Executor, opts ...Option) *Planner {
	p := &Planner{
		exec:       exec,
		differ:     differ.New(),
		objectPath: DefaultObjectPath,
		keyField:   DefaultKeyField,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanContactByEmail decides how properties should be written.
//
// Without a key value the plan is a create and no search is made. Otherwise
// one search call looks for an existing record; a failed search or zero
// matches also yields a create. The first match is diffed against
// properties to choose between update and noop.
//
// base supplies the base URL, headers and auth; its path, method and body
// are ignored.
func (p *Planner) PlanContactByEmail(ctx context.Context, base profile.Profile, properties map[string]any) (Plan, error) {
	if err := base.Validate(); err != nil {
		return Plan{}, err
	}
	ctx = logging.WithOperation(ctx, "upsert.plan")
	logger := logging.FromContext(ctx)

	key, ok := dotpath.String(properties, p.keyField)
	if !ok || key == "" {
		logger.Debug().Str("key_field", p.keyField).Msg("No natural key, planning create")
		return Plan{Action: ActionCreate, Properties: properties}, nil
	}

	resp := p.exec.Execute(ctx, profile.ToRequest(p.searchProfile(base, key, properties)))
	results := dotpath.Array(resp.Data, "results")
	if !resp.OK || len(results) == 0 {
		logger.Debug().
			Bool("search_ok", resp.OK).
			Int("status", resp.Status).
			Msg("No existing record, planning create")
		return Plan{Action: ActionCreate, MatchEmail: key, Properties: properties}, nil
	}

	match := results[0]
	id, _ := dotpath.String(match, "id")
	current, _ := dotpath.Get(match, "properties")
	currentProps, _ := current.(map[string]any)

	diff := p.differ.Properties(currentProps, properties)
	plan := Plan{ID: id, Properties: properties, Diff: diff}
	if diff.HasChanges() {
		plan.Action = ActionUpdate
	} else {
		plan.Action = ActionNoop
	}
	logger.Debug().
		Str("id", id).
		Str("action", plan.Action.String()).
		Strs("changed", diff.Fields()).
		Msg("Planned upsert")
	return plan, nil
}

// PlanUpsertFromJSON decodes one external record from raw, maps it with
// rules and plans the upsert. With no rules the record is used as the
// property set directly. Malformed JSON or a record that is not an object
// is a validation error.
func (p *Planner) PlanUpsertFromJSON(ctx context.Context, base profile.Profile, raw []byte, rules []mapping.Rule) (Plan, error) {
	var record any
	if err := json.Unmarshal(raw, &record); err != nil {
		return Plan{}, &errors.ValidationError{Field: "record", Message: "record is not valid JSON", Err: err}
	}

	var properties map[string]any
	if len(rules) > 0 {
		properties = mapping.MapRecord(rules, record)
	} else {
		obj, ok := record.(map[string]any)
		if !ok {
			return Plan{}, errors.NewValidationError("record", raw, "must be a JSON object")
		}
		properties = obj
	}
	return p.PlanContactByEmail(ctx, base, properties)
}

func (p *Planner) searchProfile(base profile.Profile, key string, properties map[string]any) profile.Profile {
	names := make([]any, 0, len(properties))
	for _, name := range sortedKeys(properties) {
		names = append(names, name)
	}

	search := base.Clone()
	search.Path = p.objectPath + "/search"
	search.Method = http.MethodPost
	search.Body = map[string]any{
		"filterGroups": []any{
			map[string]any{
				"filters": []any{
					map[string]any{"propertyName": p.keyField, "operator": "EQ", "value": key},
				},
			},
		},
		"properties": names,
		"limit":      1,
	}
	return search
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
