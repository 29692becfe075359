package export

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/apirunner/pkg/profile"
)

func TestN8NNode(t *testing.T) {
	p := profile.Profile{
		Name:    "Create contact",
		BaseURL: "https://api.hubapi.com/",
		Path:    "crm/v3/objects/contacts",
		Method:  "POST",
		Headers: profile.Values{"X-Trace": "1"},
		Query:   profile.Values{"idProperty": "email", "empty": ""},
		Body:    map[string]any{"properties": map[string]any{"email": "a@b.com"}},
		Auth:    profile.AuthConfig{Type: profile.AuthBearer, BearerToken: "pat"},
	}

	node := N8NNode(p, WithPosition(10, 20))

	_, err := uuid.Parse(node.ID)
	require.NoError(t, err)
	assert.Equal(t, "Create contact", node.Name)
	assert.Equal(t, NodeType, node.Type)
	assert.Equal(t, [2]int{10, 20}, node.Position)

	params := node.Parameters
	assert.Equal(t, "POST", params.Method)
	assert.Equal(t, "https://api.hubapi.com/crm/v3/objects/contacts", params.URL)
	assert.True(t, params.SendQuery)
	assert.Equal(t, []Parameter{{Name: "idProperty", Value: "email"}}, params.QueryParameters.Parameters)
	assert.True(t, params.SendHeaders)
	assert.Equal(t, []Parameter{
		{Name: "Authorization", Value: "Bearer pat"},
		{Name: "X-Trace", Value: "1"},
	}, params.HeaderParameters.Parameters)
	assert.True(t, params.SendBody)
	assert.Equal(t, "json", params.SpecifyBody)
	assert.JSONEq(t, `{"properties":{"email":"a@b.com"}}`, params.JSONBody)
}

func TestN8NNodeGetOmitsBodyAndEmptyLists(t *testing.T) {
	node := N8NNode(profile.Profile{
		BaseURL: "https://api.example.com",
		Path:    "/items",
		Method:  "GET",
		Body:    map[string]any{"ignored": true},
	})

	assert.Equal(t, "HTTP Request", node.Name)
	b, err := json.Marshal(node.Parameters)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"GET","url":"https://api.example.com/items","authentication":"none","options":{}}`, string(b))
}

func TestN8NNodeRedactsSecrets(t *testing.T) {
	p := profile.Profile{
		BaseURL: "https://api.example.com",
		Method:  "GET",
		Auth:    profile.AuthConfig{Type: profile.AuthAPIKeyQuery, APIKey: "secret"},
	}

	node := N8NNode(p, WithRedactedSecrets())
	assert.Equal(t, []Parameter{{Name: "api_key", Value: "REDACTED"}}, node.Parameters.QueryParameters.Parameters)
	assert.Equal(t, "secret", p.Auth.APIKey)
}

func TestN8NWorkflow(t *testing.T) {
	profiles := []profile.Profile{
		{Name: "list", BaseURL: "https://a.test", Method: "GET"},
		{Name: "detail", BaseURL: "https://a.test", Method: "GET"},
	}
	wf := N8NWorkflow("sync", profiles)

	require.Len(t, wf.Nodes, 2)
	assert.Equal(t, [2]int{0, 0}, wf.Nodes[0].Position)
	assert.Equal(t, [2]int{220, 0}, wf.Nodes[1].Position)
	assert.NotEqual(t, wf.Nodes[0].ID, wf.Nodes[1].ID)
	assert.NotNil(t, wf.Connections)
}
