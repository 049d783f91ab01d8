package events

import (
	"context"
	"encoding/json"
	"time"

	"notcluely/pkg/kafka"
	"notcluely/pkg/logger"
)

const relayPublishTimeout = 5 * time.Second

// Publisher is the outbound edge of the relay; satisfied by
// kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Relay mirrors hub events onto a Kafka topic so other systems can follow
// along. It is strictly best-effort: publish failures are logged and the
// event is dropped, never retried into the request path.
type Relay struct {
	hub       *Hub
	publisher Publisher
	source    string
	log       *logger.Logger
}

func NewRelay(hub *Hub, publisher Publisher, source string, log *logger.Logger) *Relay {
	return &Relay{
		hub:       hub,
		publisher: publisher,
		source:    source,
		log:       log,
	}
}

// Run subscribes to the hub and forwards events until ctx is cancelled or
// the hub closes. Call it from its own goroutine.
func (r *Relay) Run(ctx context.Context) {
	ch, cancel := r.hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			r.forward(ctx, event)
		}
	}
}

func (r *Relay) forward(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		r.log.Error("Failed to encode event for relay", "event_type", event.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   event.Key,
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventID:   event.ID,
			kafka.HeaderEventType: event.Type,
			kafka.HeaderSource:    r.source,
		},
		Timestamp: event.Timestamp,
	}

	pubCtx, cancel := context.WithTimeout(ctx, relayPublishTimeout)
	defer cancel()

	if err := r.publisher.Publish(pubCtx, msg); err != nil {
		r.log.Error("Failed to relay event to Kafka",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err,
		)
	}
}
