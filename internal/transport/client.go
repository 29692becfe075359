package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/errors"
)

// Client sends one outbound HTTP request per call. It carries no retry or
// caching behaviour; timeouts are driven by the caller's context.
type Client struct {
	http *http.Client
}

// New creates a transport client. A nil http.Client gets a pooled default
// with dial and keep-alive limits but no overall timeout.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &Client{http: httpClient}
}

// NewHTTPClient returns the pooled *http.Client used for relayed calls.
func NewHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   constants.DialTimeout,
		KeepAlive: constants.KeepAliveInterval,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			MaxIdleConns:        constants.MaxIdleConnections,
			MaxIdleConnsPerHost: constants.MaxConnectionsPerHost,
			ForceAttemptHTTP2:   true,
		},
	}
}

// Do builds and sends a request. Headers are sanitized first; the body is
// dropped for GET and HEAD.
func (c *Client) Do(ctx context.Context, method, url string, headers map[string]string, body any) (*http.Response, error) {
	reader, err := EncodeBody(method, body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.WrapValidation("url", err)
	}

	for name, value := range SanitizeHeaders(headers) {
		req.Header.Set(name, value)
	}
	if reader != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json, text/plain, */*")
	}

	return c.http.Do(req)
}

// SanitizeHeaders copies headers, dropping every header whose name starts
// with "host" in any letter case. Clients of the relay must not choose the
// Host the server connects with.
func SanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		if strings.HasPrefix(strings.ToLower(name), "host") {
			continue
		}
		out[name] = value
	}
	return out
}

// HasBody reports whether a request with this method may carry a body.
func HasBody(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead:
		return false
	default:
		return true
	}
}

// EncodeBody JSON-encodes body for methods that carry one. A nil body or a
// GET/HEAD request yields a nil reader.
func EncodeBody(method string, body any) (io.Reader, error) {
	if body == nil || !HasBody(method) {
		return nil, nil
	}
	if raw, ok := body.(json.RawMessage); ok {
		return bytes.NewReader(raw), nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapValidation("body", err)
	}
	return bytes.NewReader(data), nil
}

// LowerHeaders flattens response headers into a map keyed by lower-cased
// name, joining repeated values with ", ".
func LowerHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return out
}

// StatusText returns the reason phrase of a response, falling back to the
// canonical text for the code.
func StatusText(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
