// Package proxy performs single HTTP calls on behalf of a resolved request
// and normalizes the outcome into a Response value.
//
// Ordinary failures are data, not errors: DNS and connection failures,
// timeouts and non-2xx statuses all come back as a Response with ok=false.
// Only malformed input to the proxy itself is reported as an error.
package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/errors"
)

// Request is the wire-level request actually sent: a fully resolved URL
// (query string included), the method, headers and an optional JSON body.
type Request struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    any               `json:"body,omitempty"`
}

// Response is the normalized result of executing a Request.
//
// Data holds the parsed JSON body when HasData is true. RawText holds the
// body text only when it was not valid JSON. Header keys are lower-cased.
type Response struct {
	OK         bool
	Status     int
	StatusText string
	Headers    map[string]string
	Data       any
	HasData    bool
	RawText    *string
	DurationMs int64
}

// Executor performs exactly one outbound call per Execute.
type Executor interface {
	Execute(ctx context.Context, req Request) Response
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, req Request) Response

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

// Failure builds the response used for transport failures.
func Failure(rawText string) Response {
	return Response{
		OK:         false,
		Status:     0,
		StatusText: constants.StatusTextNetworkError,
		Headers:    map[string]string{},
		RawText:    &rawText,
	}
}

// Synthetic builds a successful response that carries data without any
// network call, e.g. for dry runs.
func Synthetic(statusText string, data any) Response {
	return Response{
		OK:         true,
		Status:     http.StatusOK,
		StatusText: statusText,
		Headers:    map[string]string{},
		Data:       data,
		HasData:    true,
		DurationMs: 0,
	}
}

// Text returns RawText or the empty string.
func (r Response) Text() string {
	if r.RawText == nil {
		return ""
	}
	return *r.RawText
}

type wireResponse struct {
	OK         bool              `json:"ok"`
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Data       json.RawMessage   `json:"data,omitempty"`
	RawText    *string           `json:"rawText,omitempty"`
	DurationMs int64             `json:"durationMs"`
}

// MarshalJSON writes the response in the shape the browser side expects:
// data present only when parsed, rawText present only when not.
func (r Response) MarshalJSON() ([]byte, error) {
	w := wireResponse{
		OK:         r.OK,
		Status:     r.Status,
		StatusText: r.StatusText,
		Headers:    r.Headers,
		RawText:    r.RawText,
		DurationMs: r.DurationMs,
	}
	if w.Headers == nil {
		w.Headers = map[string]string{}
	}
	if r.HasData {
		data, err := json.Marshal(r.Data)
		if err != nil {
			return nil, err
		}
		w.Data = data
	}
	return json.Marshal(w)
}

// UnmarshalJSON restores a response, keeping the difference between an
// absent data field and an explicit null.
func (r *Response) UnmarshalJSON(b []byte) error {
	var w wireResponse
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Response{
		OK:         w.OK,
		Status:     w.Status,
		StatusText: w.StatusText,
		Headers:    w.Headers,
		RawText:    w.RawText,
		DurationMs: w.DurationMs,
	}
	if len(w.Data) > 0 {
		if err := json.Unmarshal(w.Data, &r.Data); err != nil {
			return err
		}
		r.HasData = true
	}
	return nil
}

// DecodeRequest strictly decodes a relay request body. Malformed JSON or a
// missing url is protocol misuse and is returned as a validation error.
func DecodeRequest(r io.Reader) (Request, error) {
	var req Request
	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return Request{}, &errors.ValidationError{Message: "request body is not valid JSON", Err: err}
	}
	if strings.TrimSpace(req.URL) == "" {
		return Request{}, errors.NewValidationError("url", req.URL, "is required")
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	req.Method = strings.ToUpper(req.Method)
	return req, nil
}
