package handlers

import (
	"net/http"

	"github.com/agentstation/apirunner/internal/server/events"
)

// HandleWebSocket handles GET /api/events/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsHub.ServeHTTP(w, r)
	h.broker.Publish(events.ClientConnected, map[string]any{
		"transport": "websocket",
	})
}

// HandleSSE handles GET /api/events/stream. It blocks until the client
// disconnects.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.broker.Publish(events.ClientConnected, map[string]any{
		"transport": "sse",
	})
	h.sseBroadcaster.ServeHTTP(w, r)
}
