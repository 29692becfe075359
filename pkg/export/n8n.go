// Package export converts request profiles into node descriptors for the
// n8n workflow automation tool. The conversion is one way and best effort:
// there is no import back into a profile.
package export

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/agentstation/apirunner/pkg/profile"
)

const (
	// NodeType is the n8n HTTP Request node type.
	NodeType = "n8n-nodes-base.httpRequest"

	// NodeTypeVersion is the node schema version emitted.
	NodeTypeVersion = 4.2

	redacted = "REDACTED"
)

// Node is an n8n HTTP Request node.
type Node struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	TypeVersion float64        `json:"typeVersion"`
	Position    [2]int         `json:"position"`
	Parameters  NodeParameters `json:"parameters"`
}

// NodeParameters are the HTTP Request node settings.
type NodeParameters struct {
	Method           string         `json:"method"`
	URL              string         `json:"url"`
	Authentication   string         `json:"authentication"`
	SendQuery        bool           `json:"sendQuery,omitempty"`
	QueryParameters  *ParameterList `json:"queryParameters,omitempty"`
	SendHeaders      bool           `json:"sendHeaders,omitempty"`
	HeaderParameters *ParameterList `json:"headerParameters,omitempty"`
	SendBody         bool           `json:"sendBody,omitempty"`
	SpecifyBody      string         `json:"specifyBody,omitempty"`
	JSONBody         string         `json:"jsonBody,omitempty"`
	Options          map[string]any `json:"options"`
}

// ParameterList is n8n's name/value collection.
type ParameterList struct {
	Parameters []Parameter `json:"parameters"`
}

// Parameter is one name/value pair.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Workflow wraps nodes into an importable workflow document.
type Workflow struct {
	Name        string         `json:"name"`
	Nodes       []Node         `json:"nodes"`
	Connections map[string]any `json:"connections"`
}

type options struct {
	redactSecrets bool
	position      [2]int
}

// Option configures an export.
type Option func(*options)

// WithRedactedSecrets replaces API keys and bearer tokens with a placeholder.
func WithRedactedSecrets() Option {
	return func(o *options) {
		o.redactSecrets = true
	}
}

// WithPosition places the node on the n8n canvas.
func WithPosition(x, y int) Option {
	return func(o *options) {
		o.position = [2]int{x, y}
	}
}

// N8NNode converts p into an HTTP Request node. Auth is flattened into
// plain header or query parameters.
func N8NNode(p profile.Profile, opts ...Option) Node {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.redactSecrets {
		p = redact(p)
	}
	req := profile.ToRequest(p)

	params := NodeParameters{
		Method:         req.Method,
		URL:            profile.BuildURL(p.BaseURL, p.Path, nil),
		Authentication: "none",
		Options:        map[string]any{},
	}

	_, query := profile.ApplyAuth(p)
	if list := parameterList(query); list != nil {
		params.SendQuery = true
		params.QueryParameters = list
	}
	if list := parameterList(req.Headers); list != nil {
		params.SendHeaders = true
		params.HeaderParameters = list
	}
	if req.Body != nil && req.Method != http.MethodGet && req.Method != http.MethodHead {
		if body, err := json.MarshalIndent(req.Body, "", "  "); err == nil {
			params.SendBody = true
			params.SpecifyBody = "json"
			params.JSONBody = string(body)
		}
	}

	name := p.Name
	if name == "" {
		name = "HTTP Request"
	}
	return Node{
		ID:          uuid.NewString(),
		Name:        name,
		Type:        NodeType,
		TypeVersion: NodeTypeVersion,
		Position:    o.position,
		Parameters:  params,
	}
}

// N8NWorkflow wraps the nodes of several profiles into one workflow,
// laying them out left to right.
func N8NWorkflow(name string, profiles []profile.Profile, opts ...Option) Workflow {
	nodes := make([]Node, len(profiles))
	for i, p := range profiles {
		nodeOpts := append(append([]Option{}, opts...), WithPosition(i*220, 0))
		nodes[i] = N8NNode(p, nodeOpts...)
	}
	return Workflow{Name: name, Nodes: nodes, Connections: map[string]any{}}
}

func parameterList(values map[string]string) *ParameterList {
	var params []Parameter
	for name, value := range values {
		if value == "" {
			continue
		}
		params = append(params, Parameter{Name: name, Value: value})
	}
	if len(params) == 0 {
		return nil
	}
	sort.Slice(params, func(i, j int) bool {
		return params[i].Name < params[j].Name
	})
	return &ParameterList{Parameters: params}
}

func redact(p profile.Profile) profile.Profile {
	p = p.Clone()
	if p.Auth.APIKey != "" {
		p.Auth.APIKey = redacted
	}
	if p.Auth.BearerToken != "" {
		p.Auth.BearerToken = redacted
	}
	return p
}
