package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBookingCreated   = "booking_created"
	TypeBookingDeleted   = "booking_deleted"
	TypeConflictResolved = "conflict_resolved"
)

// Event is a domain notification fanned out to connected listeners after an
// operation commits. Key identifies the affected entity and doubles as the
// Kafka partition key so per-entity ordering survives the relay.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Key       string         `json:"-"`
	Payload   map[string]any `json:"-"`
	Timestamp time.Time      `json:"timestamp"`
}

func New(eventType, key string, payload map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Key:       key,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// MarshalJSON flattens the payload into the top-level object, matching the
// wire shape listeners expect: {"type": ..., "booking": ..., ...}.
func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Payload)+3)
	for k, v := range e.Payload {
		out[k] = v
	}
	out["id"] = e.ID
	out["type"] = e.Type
	out["timestamp"] = e.Timestamp
	return json.Marshal(out)
}

// Broadcaster is what services see: fire-and-forget delivery that never
// fails the triggering operation.
type Broadcaster interface {
	Broadcast(event Event)
}

// NopBroadcaster discards events; used in tests and when streaming is
// disabled.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(Event) {}
