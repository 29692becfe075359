// Package events provides the event pipeline behind the live call log.
//
// The client's hooks publish to a Broker, which fans every event out to the
// registered transports (WebSocket, SSE) through a common Subscriber interface.
package events

import "time"

// EventType represents the type of a runner event.
type EventType string

// Event types published by the server.
const (
	// CallCompleted fires after every outbound call, detail calls included.
	CallCompleted EventType = "call.completed"

	// DatasetBuilt fires when a dataset build finished.
	DatasetBuilt EventType = "dataset.built"

	// UpsertExecuted fires after an upsert plan was executed or dry-run.
	UpsertExecuted EventType = "upsert.executed"

	// ClientConnected fires when a realtime client attaches.
	ClientConnected EventType = "client.connected"
)

// Event represents a runner event with type, timestamp, and data.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
