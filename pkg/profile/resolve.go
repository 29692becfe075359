package profile

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/proxy"
)

// BuildURL joins baseURL and path and appends the non-empty query entries.
//
// A single trailing slash is stripped from baseURL and a non-empty path gets
// exactly one leading slash. Entries with an empty value are omitted. Keys
// are encoded in sorted order.
func BuildURL(baseURL, path string, query map[string]string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if path != "" {
		path = "/" + strings.TrimLeft(path, "/")
	}
	out := base + path

	values := url.Values{}
	for k, v := range query {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	if len(values) == 0 {
		return out
	}

	sep := "?"
	if strings.Contains(out, "?") {
		sep = "&"
	}
	return out + sep + values.Encode()
}

// ApplyAuth returns the effective headers and query of p after injecting
// its auth strategy. The inputs are copied, never modified, and applying
// the result again yields the same maps.
func ApplyAuth(p Profile) (headers, query map[string]string) {
	headers = copyMap(p.Headers)
	query = copyMap(p.Query)

	auth := p.Auth
	switch auth.Type {
	case AuthAPIKeyHeader:
		if auth.APIKey != "" {
			headers[orDefault(auth.HeaderName, constants.DefaultAuthHeader)] = auth.APIKey
		}
	case AuthAPIKeyQuery:
		if auth.APIKey != "" {
			query[orDefault(auth.QueryName, constants.DefaultAuthQuery)] = auth.APIKey
		}
	case AuthBearer:
		if auth.BearerToken != "" {
			headers["Authorization"] = "Bearer " + auth.BearerToken
		}
	}
	return headers, query
}

// ToRequest resolves p into the wire-level request the proxy executor sends.
// GET and HEAD requests never carry a body.
func ToRequest(p Profile) proxy.Request {
	headers, query := ApplyAuth(p)
	method, err := ParseMethod(p.Method)
	if err != nil {
		method = strings.ToUpper(p.Method)
	}

	req := proxy.Request{
		URL:     BuildURL(p.BaseURL, p.Path, query),
		Method:  method,
		Headers: headers,
	}
	if method != http.MethodGet && method != http.MethodHead {
		req.Body = cloneValue(p.Body)
	}
	return req
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
