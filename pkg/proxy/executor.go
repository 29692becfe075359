package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/apirunner/internal/transport"
	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/logging"
)

// HTTPExecutor relays requests over HTTP with a hard per-call timeout.
type HTTPExecutor struct {
	client  *transport.Client
	timeout time.Duration
	logger  *zerolog.Logger
}

// Option configures an HTTPExecutor.
type Option func(*HTTPExecutor)

// WithHTTPClient uses the given transport client instead of the pooled default.
func WithHTTPClient(c *transport.Client) Option {
	return func(e *HTTPExecutor) {
		e.client = c
	}
}

// WithTimeout overrides the per-call timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(e *HTTPExecutor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(l *zerolog.Logger) Option {
	return func(e *HTTPExecutor) {
		e.logger = l
	}
}

// NewHTTPExecutor creates an executor with the 30 second proxy timeout.
func NewHTTPExecutor(opts ...Option) *HTTPExecutor {
	e := &HTTPExecutor{
		timeout: constants.ProxyTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		e.client = transport.New(nil)
	}
	return e
}

// Execute performs one call. It never panics or errors for network or HTTP
// conditions; see Response.
func (e *HTTPExecutor) Execute(ctx context.Context, req Request) Response {
	logger := e.loggerFor(ctx)
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp := e.do(callCtx, req)
	if resp.DurationMs == 0 {
		resp.DurationMs = time.Since(start).Milliseconds()
	}

	logger.Debug().
		Str("method", req.Method).
		Str("url", RedactURL(req.URL)).
		Int("status", resp.Status).
		Bool("ok", resp.OK).
		Int64("duration_ms", resp.DurationMs).
		Msg("Proxy call")

	return resp
}

func (e *HTTPExecutor) do(ctx context.Context, req Request) Response {
	httpResp, err := e.client.Do(ctx, req.Method, req.URL, req.Headers, req.Body)
	if err != nil {
		return failureFor(ctx, err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return failureFor(ctx, err)
	}

	resp := Response{
		OK:         httpResp.StatusCode >= 200 && httpResp.StatusCode <= 299,
		Status:     httpResp.StatusCode,
		StatusText: transport.StatusText(httpResp),
		Headers:    transport.LowerHeaders(httpResp.Header),
	}

	var data any
	if err := json.Unmarshal(body, &data); err == nil {
		resp.Data = data
		resp.HasData = true
	} else {
		text := string(body)
		resp.RawText = &text
	}
	return resp
}

// failureFor maps a transport error to a NetworkError response.
func failureFor(ctx context.Context, err error) Response {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return Failure(constants.TimeoutMessage)
	case errors.Is(ctx.Err(), context.Canceled):
		return Failure("Request canceled")
	default:
		return Failure(err.Error())
	}
}

func (e *HTTPExecutor) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := logging.FromContext(ctx); l != logging.Default() || e.logger == nil {
		return l
	}
	return e.logger
}

// RedactURL drops the query string and user info, which may carry credentials.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
