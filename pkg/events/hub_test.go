package events

import (
	"testing"
	"time"

	"notcluely/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Service: "test"})
}

func TestHub_BroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.Close()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	event := New(TypeBookingCreated, "b1", map[string]any{"booking_id": "b1"})
	hub.Broadcast(event)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Type != TypeBookingCreated {
				t.Errorf("subscriber %d: expected type %s, got %s", i, TypeBookingCreated, got.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out waiting for event", i)
		}
	}
}

func TestHub_PreservesOrder(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Broadcast(New(TypeBookingCreated, "b1", nil))
	hub.Broadcast(New(TypeBookingDeleted, "b1", nil))

	first := <-ch
	second := <-ch
	if first.Type != TypeBookingCreated || second.Type != TypeBookingDeleted {
		t.Errorf("expected created then deleted, got %s then %s", first.Type, second.Type)
	}
}

func TestHub_PrunesSlowSubscriber(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.Close()

	_, cancel := hub.Subscribe()
	defer cancel()

	// Never drained: fills its buffer, then gets pruned on the next send.
	for i := 0; i < defaultSubscriberBuffer+1; i++ {
		hub.Broadcast(New(TypeBookingCreated, "b1", nil))
	}

	if got := hub.SubscriberCount(); got != 0 {
		t.Errorf("expected slow subscriber to be pruned, still have %d", got)
	}

	// Broadcasting with no subscribers must not panic or block.
	hub.Broadcast(New(TypeBookingDeleted, "b1", nil))
}

func TestHub_CancelUnsubscribes(t *testing.T) {
	hub := NewHub(testLogger())
	defer hub.Close()

	_, cancel := hub.Subscribe()
	if got := hub.SubscriberCount(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	cancel()
	cancel() // idempotent

	if got := hub.SubscriberCount(); got != 0 {
		t.Errorf("expected 0 subscribers after cancel, got %d", got)
	}
}

func TestHub_CloseDropsEveryone(t *testing.T) {
	hub := NewHub(testLogger())

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Close()

	if _, ok := <-ch; ok {
		t.Errorf("expected subscriber channel to be closed")
	}
	if got := hub.SubscriberCount(); got != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", got)
	}
}
