// Package profile describes declarative HTTP request profiles and resolves
// them into concrete requests: effective headers and query after auth
// injection, and the fully built URL.
//
// Every function here is pure. Profiles are treated as immutable inputs and
// resolution always returns fresh maps.
package profile

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/agentstation/apirunner/pkg/dotpath"
	"github.com/agentstation/apirunner/pkg/errors"
)

// Methods lists the HTTP methods a profile may use.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// Profile describes one HTTP request intent, independent of auth resolution.
type Profile struct {
	Name    string     `json:"name,omitempty" yaml:"name,omitempty"`
	BaseURL string     `json:"baseUrl" yaml:"baseUrl"`
	Path    string     `json:"path" yaml:"path"`
	Method  string     `json:"method" yaml:"method"`
	Headers Values     `json:"headers" yaml:"headers"`
	Query   Values     `json:"query" yaml:"query"`
	Body    any        `json:"body,omitempty" yaml:"body,omitempty"` // ignored for GET and HEAD
	Auth    AuthConfig `json:"auth" yaml:"auth"`
}

// AuthType selects the active auth variant of a profile.
type AuthType string

// String returns the string representation of an AuthType.
func (t AuthType) String() string {
	return string(t)
}

// Auth variants.
const (
	AuthNone         AuthType = "none"
	AuthAPIKeyHeader AuthType = "apiKeyHeader"
	AuthAPIKeyQuery  AuthType = "apiKeyQuery"
	AuthBearer       AuthType = "bearer"
)

// AuthConfig is a tagged variant keyed by Type. Only the fields of the
// active variant are read; unknown or empty types behave as none.
type AuthConfig struct {
	Type        AuthType `json:"type" yaml:"type"`
	HeaderName  string   `json:"headerName,omitempty" yaml:"headerName,omitempty"`   // apiKeyHeader
	QueryName   string   `json:"queryName,omitempty" yaml:"queryName,omitempty"`     // apiKeyQuery
	APIKey      string   `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`           // apiKeyHeader, apiKeyQuery
	BearerToken string   `json:"bearerToken,omitempty" yaml:"bearerToken,omitempty"` // bearer
}

// Values is a string map that also accepts numbers and booleans when
// decoded, stringifying them. Null entries are dropped.
type Values map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Values) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Values, len(raw))
	for k, val := range raw {
		if val == nil {
			continue
		}
		s, ok := dotpath.Stringify(val)
		if !ok {
			return errors.NewValidationError(k, val, "must be a string, number or boolean")
		}
		out[k] = s
	}
	*v = out
	return nil
}

// ParseMethod upper-cases m and checks it against Methods. An empty method
// defaults to GET.
func ParseMethod(m string) (string, error) {
	if m == "" {
		return http.MethodGet, nil
	}
	upper := strings.ToUpper(strings.TrimSpace(m))
	if !slices.Contains(Methods, upper) {
		return "", errors.NewValidationError("method", m, "unsupported HTTP method")
	}
	return upper, nil
}

// Validate checks that the profile can be resolved into a request.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.BaseURL) == "" {
		return errors.NewValidationError("baseUrl", p.BaseURL, "is required")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewValidationError("baseUrl", p.BaseURL, "must be an absolute URL")
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return errors.NewValidationError("baseUrl", p.BaseURL, "scheme must be http or https")
	}
	if _, err := ParseMethod(p.Method); err != nil {
		return err
	}
	switch p.Auth.Type {
	case "", AuthNone, AuthAPIKeyHeader, AuthAPIKeyQuery, AuthBearer:
	default:
		return errors.NewValidationError("auth.type", string(p.Auth.Type), "unknown auth type")
	}
	return nil
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.Headers = copyMap(p.Headers)
	out.Query = copyMap(p.Query)
	out.Body = cloneValue(p.Body)
	return out
}

// HasBody reports whether requests built from the profile carry a body.
func (p Profile) HasBody() bool {
	if p.Body == nil {
		return false
	}
	m, _ := ParseMethod(p.Method)
	return m != http.MethodGet && m != http.MethodHead
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cloneValue deep-copies a generic JSON value.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
