package events

import (
	"sync"

	"notcluely/pkg/logger"
)

const defaultSubscriberBuffer = 16

// Hub fans events out to in-process subscribers (the SSE stream and the
// Kafka relay). Delivery is best-effort: a subscriber whose buffer is full
// is dropped rather than allowed to block writers, so a broken listener
// never stalls a booking operation.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
	closed      bool
	log         *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		subscribers: make(map[int]chan Event),
		log:         log,
	}
}

// Subscribe registers a listener. The returned cancel func is idempotent
// and must be called when the listener goes away.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan Event, defaultSubscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Broadcast delivers the event to every live subscriber in commit order.
// Subscribers that cannot keep up are pruned.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			delete(h.subscribers, id)
			close(ch)
			h.log.Warn("Dropping slow event subscriber",
				"subscriber_id", id,
				"event_type", event.Type,
			)
		}
	}
}

// Close drops all subscribers. Further Broadcast calls are no-ops and
// further Subscribe calls return a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}

// SubscriberCount is used by tests and the readiness probe.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
