// Package handlers provides HTTP request handlers for the apirunner API.
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/apirunner"
	"github.com/agentstation/apirunner/cmd/application"
	"github.com/agentstation/apirunner/internal/server/cache"
	"github.com/agentstation/apirunner/internal/server/events"
	"github.com/agentstation/apirunner/internal/server/sse"
	ws "github.com/agentstation/apirunner/internal/server/websocket"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/profile"
)

// maxBodyBytes bounds every request body the API accepts.
const maxBodyBytes = 10 << 20

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app            application.Application
	client         apirunner.Client
	plans          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	logger         *zerolog.Logger
	startTime      time.Time
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	client apirunner.Client,
	plans *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		app:            app,
		client:         client,
		plans:          plans,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
		startTime:      time.Now(),
	}
}

// decodeBody decodes a JSON request body into v. An empty or malformed
// body is a validation error.
func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.WrapIO("read", "request body", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.NewValidationError("body", "", "is required")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &errors.ValidationError{Field: "body", Message: "request body is not valid JSON", Err: err}
	}
	return nil
}

// decodeProfile parses and validates an embedded profile.
func decodeProfile(raw json.RawMessage, field string) (profile.Profile, error) {
	if isAbsent(raw) {
		return profile.Profile{}, errors.NewValidationError(field, nil, "is required")
	}
	p, err := profile.Parse(raw, "json")
	if err != nil {
		return profile.Profile{}, errors.WrapValidation(field, err)
	}
	return p, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
